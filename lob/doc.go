// Package lob provides a typed client for the Lob print-and-mail API.
//
// The client covers addresses, postcards, letters, checks and bank accounts
// (create, get, delete or cancel, list), US and international address
// verification, US autocompletion, ZIP lookups and bank account
// micro-deposit verification. Webhook event payloads decode into [Event].
//
// # Usage
//
// Create a client with your API key:
//
//	logger := zerolog.New(os.Stderr)
//	client, err := lob.NewClient("test_xxx", logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	postcard, err := client.CreatePostcard(ctx, &lob.NewPostcard{
//		To:    lob.AddressID("adr_123"),
//		Front: lob.TemplateID("tmpl_front"),
//		Back:  lob.HTML("<html>Hello {{name}}</html>"),
//	}, lob.WithIdempotencyKey(lob.NewIdempotencyKey()))
//
// File-bearing fields accept a [TemplateID], [RemoteURL], [HTML] string or an
// [Upload]. Uploads are sent as multipart parts named after the field; the
// other variants stay inline in the request body.
//
// # Wire conventions
//
// Resource types validate their "object" tag on decode and emit it on
// encode. Verification payloads use the codecs from the wire package for
// empty-string optionals and Y/N flags. Enums reject unknown tokens.
//
// # Error Handling
//
// Every operation returns *Error values with a [Kind]:
//
//   - KindAPI: the API answered with an error payload.
//   - KindTransport: the exchange failed on the network.
//   - KindSerialization: a body or query could not be encoded or decoded.
//   - KindValidation: the request was rejected locally before any network call.
//
// [IsRetryable] reports whether repeating the same request may succeed. The
// client never retries on its own.
//
//	if errors.Is(err, lob.ErrNotFound) {
//		// Handle missing resource
//	}
//
// # Thread Safety
//
// A [Client] holds only immutable configuration and an *http.Client, so it
// is safe for concurrent use. It applies no timeouts of its own; bound calls
// with the context or a configured *http.Client.
package lob
