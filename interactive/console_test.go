package interactive

import (
	"errors"
	"testing"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	. "github.com/smartystreets/goconvey/convey"
)

func answering(answers ...string) Asker {
	return func(_ survey.Prompt, response any, _ ...survey.AskOpt) error {
		if len(answers) == 0 {
			return errors.New("no more answers")
		}
		*(response.(*string)) = answers[0]
		answers = answers[1:]
		return nil
	}
}

func collect(c *Console) <-chan Event {
	events := make(chan Event, 16)
	c.SetListener(func(e Event) { events <- e })
	return events
}

// until reads events up to and including the first one ending the engagement.
func until(events <-chan Event) []EventType {
	var types []EventType
	for {
		select {
		case e := <-events:
			types = append(types, e.Type)
			if e.Type.Ends() {
				return types
			}
		case <-time.After(2 * time.Second):
			return types
		}
	}
}

func terminalConsole(ask Asker) *Console {
	return &Console{
		Prompt:     true,
		Ask:        ask,
		IsTerminal: func() bool { return true },
	}
}

func TestConsole(t *testing.T) {
	Convey("Given a console renderer", t, func() {
		Convey("Without a terminal it should report no ads", func() {
			c := NewConsole(true)
			c.IsTerminal = func() bool { return false }
			events := collect(c)

			So(c.Start("https://example.com/cfg", Options{}, nil), ShouldBeNil)
			So(until(events), ShouldResemble, []EventType{NoAdsAvailable})
		})

		Convey("Engaging should grant an ad-free pod", func() {
			c := terminalConsole(answering(choiceEngage))
			events := collect(c)

			So(c.Start("https://example.com/cfg", Options{}, nil), ShouldBeNil)
			So(until(events), ShouldResemble, []EventType{AdFetchCompleted, AdStarted, OptIn, AdFreePod, AdCompleted})
		})

		Convey("Visiting then skipping should pop up the site first", func() {
			c := terminalConsole(answering(choiceVisit, choiceSkip))
			events := collect(c)

			So(c.Start("https://example.com/cfg", Options{}, nil), ShouldBeNil)
			So(until(events), ShouldResemble, []EventType{AdFetchCompleted, AdStarted, PopupWebsite, OptOut, AdCompleted})
		})

		Convey("An interrupt should cancel the engagement", func() {
			c := terminalConsole(func(survey.Prompt, any, ...survey.AskOpt) error {
				return terminal.InterruptErr
			})
			events := collect(c)

			So(c.Start("https://example.com/cfg", Options{}, nil), ShouldBeNil)
			So(until(events), ShouldResemble, []EventType{AdFetchCompleted, AdStarted, UserCancel, AdCompleted})
		})

		Convey("A prompt failure should report an ad error", func() {
			c := terminalConsole(answering())
			events := collect(c)

			So(c.Start("https://example.com/cfg", Options{}, nil), ShouldBeNil)
			So(until(events), ShouldResemble, []EventType{AdFetchCompleted, AdStarted, AdError})
		})

		Convey("Stopping should silence the engagement", func() {
			release := make(chan struct{})
			c := terminalConsole(func(_ survey.Prompt, response any, _ ...survey.AskOpt) error {
				<-release
				*(response.(*string)) = choiceEngage
				return nil
			})
			events := collect(c)

			So(c.Start("https://example.com/cfg", Options{}, nil), ShouldBeNil)
			So(<-events, ShouldResemble, Event{Type: AdFetchCompleted})
			So(<-events, ShouldResemble, Event{Type: AdStarted})

			So(c.Stop(), ShouldBeNil)
			So(c.Stop(), ShouldBeNil)
			close(release)

			select {
			case e := <-events:
				So(e, ShouldBeNil)
			case <-time.After(100 * time.Millisecond):
			}
		})

		Convey("Pause and Resume should be tracked", func() {
			c := NewConsole(false)
			So(c.Pause(), ShouldBeNil)
			So(c.Paused(), ShouldBeTrue)
			So(c.Resume(), ShouldBeNil)
			So(c.Paused(), ShouldBeFalse)
		})
	})
}

func TestEventTypes(t *testing.T) {
	Convey("Engagement event names should round trip", t, func() {
		for typ := AdStarted; typ <= SkipCardShown; typ++ {
			parsed, ok := ParseEventType(typ.String())
			So(ok, ShouldBeTrue)
			So(parsed, ShouldEqual, typ)
		}

		So(AdCompleted.Ends(), ShouldBeTrue)
		So(NoAdsAvailable.Ends(), ShouldBeTrue)
		So(AdFreePod.Ends(), ShouldBeFalse)
	})
}
