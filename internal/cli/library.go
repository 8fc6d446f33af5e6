package cli

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/tessro/tokyobox/internal/core"
	"github.com/tessro/tokyobox/internal/search"
)

var playlistDescription string

var playlistCmd = &cobra.Command{
	Use:     "playlist",
	Aliases: []string{"pl"},
	Short:   "Manage the player's playlists",
	RunE:    runPlaylistList,
	Long: `Create and edit playlists stored by the game client.

Playlist changes go through the running overlay, which relays them to the
client and shows the result as a toast.`,
}

var playlistListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List playlists",
	RunE:    runPlaylistList,
}

var playlistCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a playlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{"name": args[0], "description": playlistDescription}
		if err := postBridge(cmd.Context(), "/library/playlists", body, nil); err != nil {
			return err
		}
		return printLibraryResult("created", args[0], "Created playlist %s\n")
	},
}

var playlistDeleteCmd = &cobra.Command{
	Use:   "delete <playlist-id>",
	Short: "Delete a playlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/library/playlists/" + url.PathEscape(args[0])
		if err := callBridge(cmd.Context(), http.MethodDelete, path, nil, nil); err != nil {
			return err
		}
		return printLibraryResult("deleted", args[0], "Deleted playlist %s\n")
	},
}

var playlistAddCmd = &cobra.Command{
	Use:   "add <playlist-id> [id|url]",
	Short: "Add a video to a playlist",
	Long: `Add a video to a playlist. Without a video the current track is added.

Examples:
  tokyobox playlist add 3
  tokyobox playlist add 3 https://youtu.be/dQw4w9WgXcQ`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var videoID string
		if len(args) > 1 {
			videoID = videoIDFromArg(args[1])
		}
		path := "/library/playlists/" + url.PathEscape(args[0]) + "/tracks"
		if err := postBridge(cmd.Context(), path, videoBody(videoID), nil); err != nil {
			return err
		}
		return printLibraryResult("added", orCurrent(videoID), "Added %s to the playlist\n")
	},
}

var playlistRemoveCmd = &cobra.Command{
	Use:     "remove <playlist-id> <track-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a track from a playlist",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/library/playlists/" + url.PathEscape(args[0]) + "/tracks/" + url.PathEscape(args[1])
		if err := callBridge(cmd.Context(), http.MethodDelete, path, nil, nil); err != nil {
			return err
		}
		return printLibraryResult("removed", args[1], "Removed %s from the playlist\n")
	},
}

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "List and edit favorites",
	RunE:    runFavoritesList,
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add [id|url]",
	Short: "Favorite a video (default: the current track)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var videoID string
		if len(args) > 0 {
			videoID = videoIDFromArg(args[0])
		}
		if err := postBridge(cmd.Context(), "/library/favorites", videoBody(videoID), nil); err != nil {
			return err
		}
		return printLibraryResult("added", orCurrent(videoID), "Added %s to favorites\n")
	},
}

var favoritesRemoveCmd = &cobra.Command{
	Use:     "remove <favorite-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a favorite",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/library/favorites/" + url.PathEscape(args[0])
		if err := callBridge(cmd.Context(), http.MethodDelete, path, nil, nil); err != nil {
			return err
		}
		return printLibraryResult("removed", args[0], "Removed %s from favorites\n")
	},
}

func init() {
	playlistCreateCmd.Flags().StringVarP(&playlistDescription, "description", "d", "", "playlist description")

	playlistCmd.AddCommand(playlistListCmd)
	playlistCmd.AddCommand(playlistCreateCmd)
	playlistCmd.AddCommand(playlistDeleteCmd)
	playlistCmd.AddCommand(playlistAddCmd)
	playlistCmd.AddCommand(playlistRemoveCmd)
	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesRemoveCmd)
	rootCmd.AddCommand(playlistCmd)
	rootCmd.AddCommand(favoritesCmd)
}

func runPlaylistList(cmd *cobra.Command, args []string) error {
	var lists []core.Playlist
	if err := getBridge(cmd.Context(), "/library/playlists", &lists); err != nil {
		return err
	}
	if JSONOutput() {
		return printJSON(lists)
	}
	writePlaylists(os.Stdout, lists)
	return nil
}

func writePlaylists(w io.Writer, lists []core.Playlist) {
	if len(lists) == 0 {
		fmt.Fprintln(w, "No playlists yet")
		return
	}
	t := NewTableWriter(w, "ID", "NAME", "TRACKS", "DESCRIPTION")
	for _, p := range lists {
		t.Row(p.IDString(), p.Name, fmt.Sprint(p.TrackCount()), p.Description)
	}
	t.Flush()
}

func runFavoritesList(cmd *cobra.Command, args []string) error {
	var favs []core.Track
	if err := getBridge(cmd.Context(), "/library/favorites", &favs); err != nil {
		return err
	}
	if JSONOutput() {
		return printJSON(favs)
	}
	writeFavorites(os.Stdout, favs)
	return nil
}

func writeFavorites(w io.Writer, favs []core.Track) {
	if len(favs) == 0 {
		fmt.Fprintln(w, "No favorites yet")
		return
	}
	t := NewTableWriter(w, "#", "TITLE", "ARTIST", "DURATION", "ID")
	for i, tr := range favs {
		t.Row(fmt.Sprint(i+1), tr.Title, tr.Artist, tr.Duration, tr.ID)
	}
	t.Flush()
}

// videoIDFromArg reduces a YouTube link to its video ID.
func videoIDFromArg(arg string) string {
	if search.IsYouTubeURL(arg) {
		if id, ok := search.ExtractVideoID(arg); ok {
			return id
		}
	}
	return arg
}

func videoBody(videoID string) map[string]string {
	return map[string]string{"videoId": videoID}
}

func orCurrent(videoID string) string {
	if videoID == "" {
		return "the current track"
	}
	return videoID
}

func printLibraryResult(status, subject, format string) error {
	if JSONOutput() {
		return printJSON(map[string]string{"status": status, "subject": subject})
	}
	fmt.Printf(format, subject)
	return nil
}
