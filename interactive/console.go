package interactive

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/adcue/adcue/log"
	"golang.org/x/term"
)

const (
	choiceEngage = "Interact to earn an ad-free break"
	choiceSkip   = "Skip and watch the ads"
	choiceVisit  = "Visit the advertiser"
)

// Asker prompts the user. survey.AskOne satisfies it.
type Asker func(p survey.Prompt, response any, opts ...survey.AskOpt) error

// Console renders engagements as terminal prompts.
// When stdin is not a terminal, or prompting is disabled, every engagement reports no ads.
type Console struct {
	Prompt     bool
	Ask        Asker
	IsTerminal func() bool

	mu       sync.Mutex
	listener Listener
	running  bool
	paused   bool
	session  int
}

// NewConsole returns a renderer prompting on the process terminal.
func NewConsole(prompt bool) *Console {
	return &Console{
		Prompt: prompt,
		Ask:    survey.AskOne,
		IsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

func (c *Console) SetListener(listener Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listener = listener
}

// emit delivers event unless the engagement it belongs to was stopped.
func (c *Console) emit(session int, event Event) {
	c.mu.Lock()
	listener := c.listener
	live := c.running && c.session == session
	if event.Type.Ends() && live {
		c.running = false
	}
	c.mu.Unlock()

	if live && listener != nil {
		listener(event)
	}
}

// Start prompts in the background and reports the outcome as events.
func (c *Console) Start(locator string, options Options, _ View) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return errors.New("an engagement is already running")
	}
	c.running = true
	c.paused = false
	c.session++
	session := c.session
	c.mu.Unlock()

	log.Infof("starting engagement %s (web debugging: %t, user agent: %q)", locator, options.WebDebugging, options.UserAgent)

	go c.engage(session, locator)
	return nil
}

func (c *Console) engage(session int, locator string) {
	if !c.Prompt || c.IsTerminal == nil || !c.IsTerminal() {
		c.emit(session, Event{Type: NoAdsAvailable})
		return
	}

	c.emit(session, Event{Type: AdFetchCompleted})
	c.emit(session, Event{Type: AdStarted})

	for {
		var choice string
		err := c.Ask(&survey.Select{
			Message: "Sponsored break",
			Options: []string{choiceEngage, choiceSkip, choiceVisit},
		}, &choice)

		if errors.Is(err, terminal.InterruptErr) {
			c.emit(session, Event{Type: UserCancel})
			c.emit(session, Event{Type: AdCompleted})
			return
		}

		if err != nil {
			c.emit(session, Event{Type: AdError, Err: fmt.Errorf("prompt: %w", err)})
			return
		}

		switch choice {
		case choiceEngage:
			c.emit(session, Event{Type: OptIn})
			c.emit(session, Event{Type: AdFreePod})
			c.emit(session, Event{Type: AdCompleted})
			return
		case choiceSkip:
			c.emit(session, Event{Type: OptOut})
			c.emit(session, Event{Type: AdCompleted})
			return
		case choiceVisit:
			c.emit(session, Event{Type: PopupWebsite, URL: locator})
		}
	}
}

func (c *Console) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
	return nil
}

func (c *Console) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = false
	return nil
}

// Paused reports whether the host paused the engagement.
func (c *Console) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Stop discards every further event of the running engagement.
// A prompt already on screen stays until answered, its answer is ignored.
func (c *Console) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}
