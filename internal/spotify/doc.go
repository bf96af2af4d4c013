// Package spotify resolves Spotify track and playlist links into track
// metadata.
//
// A locator is classified by the markers it contains: "track" for a single
// song, "playlist" for a collection. Anything else is rejected with
// model.ErrInvalidLocator.
//
//	api, err := spotify.NewClient(ctx, clientID, clientSecret)
//	if err != nil {
//	    return err
//	}
//	provider := spotify.NewProvider(api)
//	collection, err := provider.Resolve(ctx, "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M")
//
// The client authenticates with the client-credentials flow, so no user
// login is needed. Only public data is read.
package spotify
