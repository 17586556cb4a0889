// Package scrapbox provides a client for the Scrapbox wiki API.
//
// It lists and fetches pages, renders page text, resolves page icons and
// downloads file attachments, including attachments hosted on Gyazo.
//
// # Usage
//
// Create a client with an optional connect.sid session cookie. Private
// projects need one; public projects work without:
//
//	client, err := scrapbox.NewClient(connectSID, logger,
//		scrapbox.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Fetch every page of a project, 1000 at a time
//	all, err := client.GetAllPages(ctx, "help-jp", 1000, func(fetched, total int) {
//		fmt.Fprintf(os.Stderr, "Fetched %d/%d pages\n", fetched, total)
//	})
//
//	// Download an attachment
//	data, err := client.GetFile(ctx, "https://gyazo.com/da78df293f9e83a74b5402411e2f2e01")
//
// # File references
//
// GetFile accepts three forms, checked in this order:
//
//   - a Gyazo URL, resolved through the Gyazo oEmbed API
//   - a Scrapbox file URL such as https://scrapbox.io/files/<id>.png
//   - a bare file ID such as 60190edf1176d9001c13f8e8.png
//
// # Error Handling
//
// Errors can be classified with errors.Is against ErrNotFound,
// ErrUnauthorized, ErrMalformedResponse, ErrUnsupportedEmbedType and
// ErrTransport. Non-success statuses are reported as *APIError:
//
//	var apiErr *scrapbox.APIError
//	if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
//		// Handle auth failure
//	}
package scrapbox
