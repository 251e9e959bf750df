package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/123ibadullah/MusicWebApplication/config"
	"github.com/123ibadullah/MusicWebApplication/core/engine"
	"github.com/123ibadullah/MusicWebApplication/core/gateway"
	"github.com/123ibadullah/MusicWebApplication/core/library"
	"github.com/123ibadullah/MusicWebApplication/core/localstore"
	"github.com/123ibadullah/MusicWebApplication/core/player"
	"github.com/123ibadullah/MusicWebApplication/core/status"
	"github.com/123ibadullah/MusicWebApplication/logger"
)

var playServerURL string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Interactive terminal player",
	Long:  `Connects to the API server, loads the library and drives playback from stdin commands.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		logger.InitLogger(logger.Config{Level: logger.LogLevel(cfg.LogLevel), OutputPath: cfg.LogPath})
		runPlayer(playServerURL)
	},
}

func init() {
	playCmd.Flags().StringVar(&playServerURL, "server", "http://localhost:4000", "API server base URL")
	rootCmd.AddCommand(playCmd)
}

func runPlayer(serverURL string) {
	store, err := localstore.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open local state: %v\n", err)
		os.Exit(1)
	}

	gw := gateway.New(serverURL)
	lib := library.New(gw, store)
	lib.SetNotifyFunc(printResult)

	if res := lib.Load(context.Background()); !res.OK {
		fmt.Println(res.Message)
	}

	p := player.NewBeep()
	eng := engine.New(p, lib)
	eng.SetNotifyFunc(printResult)
	defer eng.Close()

	fmt.Println("Commands: login, list, play <id>, pause, next, prev, shuffle, repeat, seek, vol,")
	fmt.Println("          like <id>, recent, playlists, pl-create, pl-delete, pl-add, pl-remove,")
	fmt.Println("          search <query>, status, quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, arg := fields[0], strings.Join(fields[1:], " ")

		switch cmd {
		case "quit", "exit":
			return
		case "login":
			creds := strings.Fields(arg)
			if len(creds) != 2 {
				fmt.Println("usage: login <username> <password>")
				continue
			}
			user, err := gw.Login(context.Background(), creds[0], creds[1])
			if err != nil {
				fmt.Println("login failed:", err)
				continue
			}
			lib.SetSession(true)
			lib.Load(context.Background())
			fmt.Println("logged in as", user.Username)
		case "list":
			for _, s := range lib.Songs() {
				fmt.Printf("%-12s %s - %s [%s]\n", s.ID, s.Name, s.Artist, s.Duration)
			}
		case "play":
			printResult(eng.PlayTrackByID(arg, nil))
		case "pause", "resume":
			printResult(eng.TogglePlayPause())
		case "next":
			printResult(eng.Next())
		case "prev":
			printResult(eng.Previous())
		case "shuffle":
			printResult(eng.ToggleShuffle())
		case "repeat":
			printResult(eng.ToggleRepeat())
		case "seek":
			f, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				fmt.Println("usage: seek <fraction between 0 and 1>")
				continue
			}
			printResult(eng.SeekTo(f))
		case "vol":
			v, err := strconv.Atoi(arg)
			if err != nil {
				fmt.Println("usage: vol <0-100>")
				continue
			}
			printResult(eng.SetVolume(v))
		case "like":
			printResult(lib.ToggleLike(arg))
		case "playlists":
			for _, pl := range lib.Playlists() {
				fmt.Printf("%-12s %s (%d songs)\n", pl.ID, pl.Name, len(pl.Songs))
			}
		case "pl-create":
			printResult(lib.CreatePlaylist(context.Background(), arg, ""))
		case "pl-delete":
			printResult(lib.DeletePlaylist(arg))
		case "pl-add":
			ids := strings.Fields(arg)
			if len(ids) != 2 {
				fmt.Println("usage: pl-add <playlist-id> <song-id>")
				continue
			}
			printResult(lib.AddSongToPlaylist(ids[0], ids[1]))
		case "pl-remove":
			ids := strings.Fields(arg)
			if len(ids) != 2 {
				fmt.Println("usage: pl-remove <playlist-id> <song-id>")
				continue
			}
			printResult(lib.RemoveSongFromPlaylist(ids[0], ids[1]))
		case "recent":
			for _, e := range lib.RecentlyPlayed() {
				fmt.Printf("%-12s %s - %s\n", e.ID, e.Name, e.Artist)
			}
		case "search":
			res := lib.Search(arg)
			for _, s := range res.Songs {
				fmt.Printf("song     %-12s %s - %s\n", s.ID, s.Name, s.Artist)
			}
			for _, a := range res.Albums {
				fmt.Printf("album    %-12s %s\n", a.ID, a.Name)
			}
			for _, p := range res.Playlists {
				fmt.Printf("playlist %-12s %s\n", p.ID, p.Name)
			}
			if res.Empty() {
				fmt.Println("no matches")
			}
		case "status":
			snap := eng.Snapshot()
			if snap.CurrentTrack == nil {
				fmt.Println("nothing selected")
				continue
			}
			state := "paused"
			if snap.IsPlaying {
				state = "playing"
			}
			fmt.Printf("%s: %s - %s  %s/%s  vol %d%%  shuffle=%v repeat=%v\n",
				state, snap.CurrentTrack.Name, snap.CurrentTrack.Artist,
				snap.CurrentTime, snap.TotalTime, snap.Volume,
				snap.IsShuffled, snap.IsRepeating)
		default:
			fmt.Println("unknown command:", cmd)
		}
	}
}

func printResult(res status.Result) {
	if res.Message != "" {
		fmt.Println(res.Message)
	}
}
