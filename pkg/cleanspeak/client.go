package cleanspeak

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/inversoft/cleanspeak-go-client/pkg/httpclient"
	"github.com/inversoft/cleanspeak-go-client/pkg/optional"
	"github.com/inversoft/cleanspeak-go-client/pkg/rest"
)

// Logger is the logging surface the client uses. internal/logger satisfies it.
type Logger interface {
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}

// Option configures the client.
type Option func(*cfg)

type cfg struct {
	httpClient *resty.Client
	timeout    time.Duration
	log        Logger
}

// WithHTTPClient makes the client send requests through c. It takes
// precedence over WithTimeout.
func WithHTTPClient(c *resty.Client) Option {
	return func(o *cfg) {
		o.httpClient = c
	}
}

// WithTimeout sets the per-request timeout. The default is 30 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(o *cfg) {
		o.timeout = timeout
	}
}

// WithLogger sets the logger used for per-call debug output.
func WithLogger(log Logger) Option {
	return func(o *cfg) {
		if log != nil {
			o.log = log
		}
	}
}

// Client provides access to the CleanSpeak API. Every method sends exactly
// one request and returns its classified response; the error is non-nil only
// for misuse of the request builder.
type Client struct {
	apiKey  string
	baseURL string
	http    *resty.Client
	log     Logger
}

// New creates a client for the CleanSpeak WebService at baseURL
// (for example https://foo-cleanspeak-api.inversoft.io).
func New(apiKey, baseURL string, options ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}

	o := &cfg{
		timeout: httpclient.DefaultTimeout,
		log:     noopLogger{},
	}
	for _, opt := range options {
		opt(o)
	}
	if o.httpClient == nil {
		o.httpClient = httpclient.New(o.timeout)
	}

	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    o.httpClient,
		log:     o.log,
	}, nil
}

// Start returns a request builder with authorization and base URL applied.
func (c *Client) Start() *rest.Builder {
	return rest.NewBuilder(c.http).
		Authorization(c.apiKey).
		URL(c.baseURL)
}

func (c *Client) do(ctx context.Context, b *rest.Builder) (*rest.ClientResponse, error) {
	resp, err := b.Go(ctx)
	if err != nil {
		return nil, err
	}
	if resp.Exception != nil {
		c.log.WarnObj("cleanspeak request failed", "cleanspeak_call", map[string]any{
			"method": b.Method(),
			"url":    b.RequestURL(),
			"error":  resp.Exception.Error(),
		})
		return resp, nil
	}
	c.log.DebugObj("cleanspeak request completed", "cleanspeak_call", map[string]any{
		"method": b.Method(),
		"url":    b.RequestURL(),
		"status": resp.Status,
	})
	return resp, nil
}

// Filter runs content through the filter without storing it
// (POST /content/item/filter).
func (c *Client) Filter(ctx context.Context, req any) (*rest.ClientResponse, error) {
	return c.do(ctx, c.Start().URI("/content/item/filter").JSONBody(req).Post())
}

// Flag records that a user reported a piece of content
// (POST /content/item/flag/{contentID}).
func (c *Client) Flag(ctx context.Context, contentID uuid.UUID, req any) (*rest.ClientResponse, error) {
	return c.do(ctx, c.Start().URI("/content/item/flag").URLSegment(optional.Of(contentID)).JSONBody(req).Post())
}

// Moderate moderates content according to the application rules. The id is
// only meaningful for persistent-content applications
// (POST /content/item/moderate[/{contentID}]).
func (c *Client) Moderate(ctx context.Context, contentID optional.Optional[uuid.UUID], req any) (*rest.ClientResponse, error) {
	return c.do(ctx, c.Start().URI("/content/item/moderate").URLSegment(optional.String(contentID)).JSONBody(req).Post())
}

// ModerateUpdate re-moderates content that was edited outside CleanSpeak
// (PUT /content/item/moderate/{contentID}).
func (c *Client) ModerateUpdate(ctx context.Context, contentID uuid.UUID, req any) (*rest.ClientResponse, error) {
	return c.do(ctx, c.Start().URI("/content/item/moderate").URLSegment(optional.Of(contentID)).JSONBody(req).Put())
}

// DeleteAllUserContent deletes every item a user generated
// (DELETE /content/item/{userID}).
func (c *Client) DeleteAllUserContent(ctx context.Context, userID uuid.UUID) (*rest.ClientResponse, error) {
	return c.do(ctx, c.Start().URI("/content/item").URLSegment(optional.Of(userID)).Delete())
}

// ActionUser tells CleanSpeak a user was actioned elsewhere
// (POST /content/user/action/{userID}).
func (c *Client) ActionUser(ctx context.Context, userID uuid.UUID, req any) (*rest.ClientResponse, error) {
	return c.do(ctx, c.Start().URI("/content/user/action").URLSegment(optional.Of(userID)).JSONBody(req).Post())
}

// FlagUser records that a user was reported for their behavior
// (POST /content/user/flag/{userID}).
func (c *Client) FlagUser(ctx context.Context, userID uuid.UUID, req any) (*rest.ClientResponse, error) {
	return c.do(ctx, c.Start().URI("/content/user/flag").URLSegment(optional.Of(userID)).JSONBody(req).Post())
}

// CreateUser stores a content-generating user (POST /content/user[/{userID}]).
func (c *Client) CreateUser(ctx context.Context, userID optional.Optional[uuid.UUID], req any) (*rest.ClientResponse, error) {
	return c.do(ctx, c.Start().URI("/content/user").URLSegment(optional.String(userID)).JSONBody(req).Post())
}

// RetrieveUser (GET /content/user/{userID}).
func (c *Client) RetrieveUser(ctx context.Context, userID uuid.UUID) (*rest.ClientResponse, error) {
	return c.do(ctx, c.Start().URI("/content/user").URLSegment(optional.Of(userID)).Get())
}

// RetrieveUserByEmail (GET /content/user?email=).
func (c *Client) RetrieveUserByEmail(ctx context.Context, email string) (*rest.ClientResponse, error) {
	return c.do(ctx, c.Start().URI("/content/user").URLParameter("email", optional.Some(email)).Get())
}

// UpdateUser (PUT /content/user/{userID}).
func (c *Client) UpdateUser(ctx context.Context, userID uuid.UUID, req any) (*rest.ClientResponse, error) {
	return c.do(ctx, c.Start().URI("/content/user").URLSegment(optional.Of(userID)).JSONBody(req).Put())
}

// DeleteUser (DELETE /content/user/{userID}). hardDelete is sent only when
// present.
func (c *Client) DeleteUser(ctx context.Context, userID uuid.UUID, hardDelete optional.Optional[bool]) (*rest.ClientResponse, error) {
	return c.do(ctx, c.Start().
		URI("/content/user").
		URLSegment(optional.Of(userID)).
		URLParameter("hardDelete", optional.String(hardDelete)).
		Delete())
}

// RetrieveWhitelist returns the whole whitelist filter configuration
// (GET /filter/whitelist).
func (c *Client) RetrieveWhitelist(ctx context.Context) (*rest.ClientResponse, error) {
	return c.do(ctx, c.Start().URI("/filter/whitelist").Get())
}

// CreateApplication (POST /system/application[/{applicationID}]).
func (c *Client) CreateApplication(ctx context.Context, applicationID optional.Optional[uuid.UUID], req any) (*rest.ClientResponse, error) {
	return c.do(ctx, c.Start().URI("/system/application").URLSegment(optional.String(applicationID)).JSONBody(req).Post())
}

// RetrieveApplication (GET /system/application/{applicationID}).
func (c *Client) RetrieveApplication(ctx context.Context, applicationID uuid.UUID) (*rest.ClientResponse, error) {
	return c.do(ctx, c.Start().URI("/system/application").URLSegment(optional.Of(applicationID)).Get())
}

// RetrieveApplications (GET /system/application).
func (c *Client) RetrieveApplications(ctx context.Context) (*rest.ClientResponse, error) {
	return c.do(ctx, c.Start().URI("/system/application").Get())
}

// UpdateApplication (PUT /system/application/{applicationID}).
func (c *Client) UpdateApplication(ctx context.Context, applicationID uuid.UUID, req any) (*rest.ClientResponse, error) {
	return c.do(ctx, c.Start().URI("/system/application").URLSegment(optional.Of(applicationID)).JSONBody(req).Put())
}

// DeleteApplication (DELETE /system/application/{applicationID}).
func (c *Client) DeleteApplication(ctx context.Context, applicationID uuid.UUID) (*rest.ClientResponse, error) {
	return c.do(ctx, c.Start().URI("/system/application").URLSegment(optional.Of(applicationID)).Delete())
}

// CreateModerator creates an admin/moderator of the Management Interface
// (POST /system/user[/{moderatorID}]).
func (c *Client) CreateModerator(ctx context.Context, moderatorID optional.Optional[uuid.UUID], req any) (*rest.ClientResponse, error) {
	return c.do(ctx, c.Start().URI("/system/user").URLSegment(optional.String(moderatorID)).JSONBody(req).Post())
}

// RetrieveModerator (GET /system/user/{moderatorID}).
func (c *Client) RetrieveModerator(ctx context.Context, moderatorID uuid.UUID) (*rest.ClientResponse, error) {
	return c.do(ctx, c.Start().URI("/system/user").URLSegment(optional.Of(moderatorID)).Get())
}

// UpdateModerator (PUT /system/user/{moderatorID}).
func (c *Client) UpdateModerator(ctx context.Context, moderatorID uuid.UUID, req any) (*rest.ClientResponse, error) {
	return c.do(ctx, c.Start().URI("/system/user").URLSegment(optional.Of(moderatorID)).JSONBody(req).Put())
}

// DeleteModerator (DELETE /system/user/{moderatorID}).
func (c *Client) DeleteModerator(ctx context.Context, moderatorID uuid.UUID) (*rest.ClientResponse, error) {
	return c.do(ctx, c.Start().URI("/system/user").URLSegment(optional.Of(moderatorID)).Delete())
}

// Backup downloads a ZIP backup of the database (GET /system/backup). The
// body is streamed: write it out with WriteResponseToFile, or Close the
// response to release the connection.
func (c *Client) Backup(ctx context.Context) (*rest.ClientResponse, error) {
	return c.do(ctx, c.Start().URI("/system/backup").StreamResponse().Get())
}

// Restore uploads the backup ZIP at path (POST /system/restore).
func (c *Client) Restore(ctx context.Context, path string) (*rest.ClientResponse, error) {
	return c.do(ctx, c.Start().
		URI("/system/restore").
		ContentType(rest.ContentTypeOctetStream).
		BodyFromFile(path).
		Post())
}
