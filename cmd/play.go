package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/adcue/adcue/ads"
	"github.com/adcue/adcue/adsim"
	"github.com/adcue/adcue/color"
	"github.com/adcue/adcue/icon"
	"github.com/adcue/adcue/interactive"
	"github.com/adcue/adcue/journal"
	"github.com/adcue/adcue/key"
	"github.com/adcue/adcue/log"
	"github.com/adcue/adcue/open"
	"github.com/adcue/adcue/orchestrator"
	"github.com/adcue/adcue/player"
	"github.com/adcue/adcue/style"
	"github.com/adcue/adcue/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringP("ads", "a", "", "Ad schedule file served by the local ad simulator")
	playCmd.Flags().String("ads-inline", "", "Inline TOML ad schedule")
	playCmd.MarkFlagsMutuallyExclusive("ads", "ads-inline")

	playCmd.Flags().StringP("start", "s", "", "Start offset, e.g. 1:30 or 90s")
	playCmd.Flags().BoolP("fresh", "f", false, "Ignore the journal and replay every ad break")
	playCmd.Flags().StringP("title", "t", "", "Player window title")

	playCmd.Flags().Bool("prompt", true, "Render interactive ads as terminal prompts")
	lo.Must0(viper.BindPFlag(key.InteractivePrompt, playCmd.Flags().Lookup("prompt")))

	playCmd.Flags().Bool("debug", false, "Log every port command")
	lo.Must0(viper.BindPFlag(key.AdsDebug, playCmd.Flags().Lookup("debug")))
}

var playCmd = &cobra.Command{
	Use:   "play <content>",
	Short: "Play content with ad breaks",
	Long: `Play content in mpv, pausing it for the ad breaks of a schedule.
Interactive ads are rendered as terminal prompts; engaging with one skips the rest of its break.`,
	Example: `  adcue play https://cdn.example.com/content.m3u8 --ads breaks.toml
  adcue play movie.mkv --ads-inline '[[breaks]]
offset_ms = 0
[[breaks.ads]]
duration_ms = 15000'`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		checkDependencies()

		source := args[0]
		request := ads.Request{
			TagURL:   lo.Must(cmd.Flags().GetString("ads")),
			Response: lo.Must(cmd.Flags().GetString("ads-inline")),
		}

		options := orchestrator.OptionsFromConfig(source, request)
		handleErr(resume(cmd, &options))

		title := lo.Must(cmd.Flags().GetString("title"))
		if title == "" {
			title = util.FileStem(source)
		}

		handleErr(play(options, title))
	},
}

// resume seeds the session from the journal and the start flag.
func resume(cmd *cobra.Command, options *orchestrator.Options) error {
	if viper.GetBool(key.JournalEnable) && !lo.Must(cmd.Flags().GetBool("fresh")) {
		entry, ok, err := journal.Find(options.Source)
		if err != nil {
			log.Warnf("journal: %v", err)
		} else if ok {
			options.StartPositionMs = entry.PositionMs
			options.PlayedBreaksMs = entry.PlayedBreaksMs
			fmt.Printf("%s resuming at %s\n", icon.Get(icon.Content), util.FormatMs(entry.PositionMs))
		}
	}

	if start := lo.Must(cmd.Flags().GetString("start")); start != "" {
		ms, err := util.ParseOffset(start)
		if err != nil {
			return err
		}
		options.StartPositionMs = ms
	}

	return nil
}

// cliHost opens advertiser pages and ends the session when content fails.
type cliHost struct {
	cancel context.CancelFunc
	failed atomic.Pointer[error]
}

func (h *cliHost) OnPopupRequested(url string) {
	if err := open.URL(url); err != nil {
		log.Warnf("popup %s: %v", url, err)
		return
	}
	fmt.Printf("%s opened %s\n", icon.Get(icon.Interactive), style.Fg(color.Cyan)(url))
}

func (h *cliHost) OnContentError(err error) {
	h.failed.Store(&err)
	h.cancel()
}

func play(options orchestrator.Options, title string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	content := player.NewMPV(title)
	host := &cliHost{cancel: cancel}
	ports := orchestrator.Ports{
		Content:     content,
		Ads:         adsim.New(adsim.Options{Player: content}),
		Interactive: interactive.NewConsole(viper.GetBool(key.InteractivePrompt)),
		Host:        host,
	}

	o, err := orchestrator.New(options, ports)
	if err != nil {
		return err
	}

	if err := o.Start(ctx); err != nil {
		return err
	}

	lastPositionMs := options.StartPositionMs
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-o.Done():
			break loop
		case <-ticker.C:
			if progress := o.ContentProgress(); progress.Ready {
				lastPositionMs = progress.PositionMs
			}
		}
	}

	o.Teardown()
	session := o.Snapshot()
	log.Infof("session %s ended in %s", session.ID, session.State)

	if viper.GetBool(key.JournalEnable) {
		entry := &journal.Entry{
			Source:         options.Source,
			PositionMs:     lastPositionMs,
			PlayedBreaksMs: session.Breaks.PlayedOffsets(),
			AdTag:          options.Request.TagURL,
			AdResponse:     options.Request.Response,
		}
		if session.ContentCompleted {
			entry.PositionMs = 0
		}
		if err := journal.Save(entry); err != nil {
			log.Warnf("journal: %v", err)
		}
	}

	if failed := host.failed.Load(); failed != nil {
		var failure *orchestrator.Failure
		if errors.As(*failed, &failure) && failure.Kind == orchestrator.ContentPlaybackFailed {
			fmt.Printf("%s playback ended: %v\n", icon.Get(icon.Content), failure.Err)
			return nil
		}
		return *failed
	}

	return nil
}
