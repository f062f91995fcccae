package orchestrator

import (
	"fmt"

	"github.com/adcue/adcue/ads"
	"github.com/adcue/adcue/position"
)

// Op is a port operation issued by the transition function.
type Op int

const (
	OpContentLoad Op = iota + 1
	OpContentPlay
	OpContentPause
	OpContentStop
	OpContentSeek
	OpContentSeekToEnd
	OpContentShow
	OpContentHide
	OpContentControls
	OpContentRelease

	OpAdSurfaceShow
	OpAdSurfaceHide

	OpAdsRequest
	OpAdsStart
	OpAdsPause
	OpAdsResume
	OpAdsDiscard
	OpAdsContentComplete
	OpAdsRelease

	OpInteractiveStart
	OpInteractivePause
	OpInteractiveResume
	OpInteractiveStop

	OpSavePosition
	OpRestorePosition

	OpLoadCuePoints
	OpMarkBreakPlayed

	OpPopup
	OpReportFailure
	OpNotifyFatal
	OpNote
)

var opNames = map[Op]string{
	OpContentLoad:        "content.load",
	OpContentPlay:        "content.play",
	OpContentPause:       "content.pause",
	OpContentStop:        "content.stop",
	OpContentSeek:        "content.seek",
	OpContentSeekToEnd:   "content.seek-to-end",
	OpContentShow:        "content.show",
	OpContentHide:        "content.hide",
	OpContentControls:    "content.controls",
	OpContentRelease:     "content.release",
	OpAdSurfaceShow:      "content.show-ad",
	OpAdSurfaceHide:      "content.hide-ad",
	OpAdsRequest:         "ads.request",
	OpAdsStart:           "ads.start",
	OpAdsPause:           "ads.pause",
	OpAdsResume:          "ads.resume",
	OpAdsDiscard:         "ads.discard",
	OpAdsContentComplete: "ads.content-complete",
	OpAdsRelease:         "ads.release",
	OpInteractiveStart:   "interactive.start",
	OpInteractivePause:   "interactive.pause",
	OpInteractiveResume:  "interactive.resume",
	OpInteractiveStop:    "interactive.stop",
	OpSavePosition:       "position.save",
	OpRestorePosition:    "position.restore",
	OpLoadCuePoints:      "breaks.load",
	OpMarkBreakPlayed:    "breaks.mark-played",
	OpPopup:              "host.popup",
	OpReportFailure:      "failure",
	OpNotifyFatal:        "host.error",
	OpNote:               "note",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "unknown"
}

// Command is a single port call. Only the fields relevant to Op are set.
type Command struct {
	Op          Op
	PositionMs  int64
	Mode        position.Mode
	Enabled     bool
	Target      string
	CuePointsMs []int64
	Request     ads.Request
	Err         error
}

func (c Command) String() string {
	switch c.Op {
	case OpContentLoad, OpInteractiveStart, OpPopup:
		return fmt.Sprintf("%s %s", c.Op, c.Target)
	case OpContentSeek, OpContentSeekToEnd, OpMarkBreakPlayed:
		return fmt.Sprintf("%s %d", c.Op, c.PositionMs)
	case OpContentControls:
		return fmt.Sprintf("%s %t", c.Op, c.Enabled)
	case OpSavePosition, OpRestorePosition:
		return fmt.Sprintf("%s %s", c.Op, c.Mode)
	case OpLoadCuePoints:
		return fmt.Sprintf("%s %v", c.Op, c.CuePointsMs)
	case OpAdsRequest:
		return fmt.Sprintf("%s %s", c.Op, c.Request)
	case OpReportFailure, OpNotifyFatal:
		return fmt.Sprintf("%s %v", c.Op, c.Err)
	case OpNote:
		return fmt.Sprintf("%s %s", c.Op, c.Target)
	default:
		return c.Op.String()
	}
}

func cmd(op Op) Command {
	return Command{Op: op}
}

func seek(positionMs int64) Command {
	return Command{Op: OpContentSeek, PositionMs: positionMs}
}

func seekToEnd(marginMs int64) Command {
	return Command{Op: OpContentSeekToEnd, PositionMs: marginMs}
}

func controls(enabled bool) Command {
	return Command{Op: OpContentControls, Enabled: enabled}
}

func save(mode position.Mode) Command {
	return Command{Op: OpSavePosition, Mode: mode}
}

func restore(mode position.Mode) Command {
	return Command{Op: OpRestorePosition, Mode: mode}
}

func note(format string, args ...any) Command {
	return Command{Op: OpNote, Target: fmt.Sprintf(format, args...)}
}

func report(kind FailureKind, err error) Command {
	return Command{Op: OpReportFailure, Err: fail(kind, err)}
}
