// Package cleanspeak is a Go client for the CleanSpeak content moderation
// WebService.
//
// Create a client with your API key and the URL of your CleanSpeak instance:
//
//	client, err := cleanspeak.New("your-api-key", "https://your-cleanspeak-api.inversoft.io")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := client.Moderate(ctx, optional.None[uuid.UUID](), cleanspeak.ModerateRequest{
//		Content: cleanspeak.Content{
//			ApplicationID: appID,
//			CreateInstant: cleanspeak.Instant(time.Now()),
//			Parts:         []cleanspeak.ContentPart{{Type: cleanspeak.ContentPartText, Content: "fuck off"}},
//			SenderID:      senderID,
//		},
//	})
//	if err != nil {
//		log.Fatal(err) // only returned for builder misuse
//	}
//
//	if resp.WasSuccessful() {
//		var mr cleanspeak.ModerateResponse
//		_ = resp.DecodeSuccess(&mr)
//		fmt.Println(mr.ContentAction)
//	} else {
//		fmt.Println(resp.Status, resp.ErrorResponse, resp.Exception)
//	}
//
// # Responses
//
// Every method returns a *rest.ClientResponse. Check WasSuccessful first.
// A 400 carries a JSON body that decodes into Errors. A 404 carries nothing,
// so a missing resource is recognised by Status alone. Other failure statuses
// keep the raw response in ErrorResponse, and network failures are recorded
// in Exception.
//
// Request bodies are any JSON-serializable value, so the typed requests in
// this package and plain maps are interchangeable.
package cleanspeak
