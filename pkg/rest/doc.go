// Package rest is a small fluent HTTP request builder and response
// classifier used by the CleanSpeak endpoint client.
//
// A call is configured on a Builder and sent with Go:
//
//	resp, err := rest.NewBuilder(client).
//		Authorization(apiKey).
//		URL("https://example.cleanspeak.io").
//		URI("/content/item/moderate").
//		URLSegment(optional.String(contentID)).
//		JSONBody(req).
//		Post().
//		Go(ctx)
//
// err is only ever ErrMethodNotSet. Network and API failures are data on the
// returned ClientResponse; branch on WasSuccessful before reading payloads.
package rest
