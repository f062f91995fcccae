package scenario

import (
	"fmt"
	"strings"

	"github.com/adcue/adcue/internal/porttest"
	"github.com/adcue/adcue/log"
	"github.com/adcue/adcue/orchestrator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
)

// Options tunes a replay. The zero value uses the default orchestrator configuration.
type Options struct {
	Config orchestrator.Options

	// FailFast stops at the first step whose expectations do not hold.
	FailFast bool
}

// StepReport is the outcome of one step.
type StepReport struct {
	Index    int      `json:"index"`
	Event    string   `json:"event"`
	From     string   `json:"from"`
	To       string   `json:"to"`
	Commands []string `json:"commands"`
	Calls    []string `json:"calls"`
	Dropped  bool     `json:"dropped,omitempty"`
	Failures []string `json:"failures,omitempty"`
}

// Passed reports whether every expectation of the step held.
func (s StepReport) Passed() bool {
	return len(s.Failures) == 0
}

// Report is the outcome of a replay.
type Report struct {
	Name       string       `json:"name"`
	SessionID  string       `json:"session_id"`
	Steps      []StepReport `json:"steps"`
	FinalState string       `json:"final_state"`
	Played     []int64      `json:"played_breaks_ms"`
	Popups     []string     `json:"popups,omitempty"`
	Errors     []string     `json:"errors,omitempty"`
}

// Passed reports whether every step passed.
func (r Report) Passed() bool {
	return lo.EveryBy(r.Steps, StepReport.Passed)
}

// Failures returns the failed expectations prefixed with their step.
func (r Report) Failures() []string {
	var failures []string
	for _, step := range r.Steps {
		for _, failure := range step.Failures {
			failures = append(failures, fmt.Sprintf("step %d (%s): %s", step.Index, step.Event, failure))
		}
	}
	return failures
}

// Run replays the scenario through a fresh state machine wired to recording ports.
// The error is non-nil only when the scenario cannot be replayed at all.
func Run(scenario Scenario, options Options) (Report, error) {
	if err := scenario.Validate(); err != nil {
		return Report{}, err
	}

	config := options.Config
	config.Source = scenario.Source
	config.Request = scenario.Request()
	config.Stitched = config.Stitched || scenario.Stitched
	config.StartPositionMs = scenario.StartPositionMs
	config.PlayedBreaksMs = append(config.PlayedBreaksMs, scenario.PlayedBreaksMs...)
	if config.Registerer == nil {
		config.Registerer = prometheus.NewRegistry()
	}

	fakes := porttest.New()
	ports := orchestrator.Ports{
		Content: fakes.Content,
		Ads:     fakes.Ads,
		Host:    fakes.Host,
	}
	if !scenario.NoInteractive {
		ports.Interactive = fakes.Interactive
	}

	machine, err := orchestrator.NewMachine(config, ports)
	if err != nil {
		return Report{}, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	report := Report{Name: scenario.Name, SessionID: machine.Session().ID}
	log.Infof("scenario %s: replaying %d steps", scenario.Name, len(scenario.Steps))

	for i, step := range scenario.Steps {
		stepReport := replay(machine, fakes, i+1, step)
		report.Steps = append(report.Steps, stepReport)

		if options.FailFast && !stepReport.Passed() {
			break
		}
	}

	machine.Wait()

	report.FinalState = machine.Session().State.String()
	report.Played = machine.Registry().PlayedOffsets()
	report.Popups = append(report.Popups, fakes.Host.Popups...)
	report.Errors = lo.Map(fakes.Host.Errors, func(err error, _ int) string {
		return err.Error()
	})

	return report, nil
}

func replay(machine *orchestrator.Machine, fakes *porttest.Ports, index int, step Step) StepReport {
	// validated before the replay started
	event, _ := step.event()

	if step.PositionMs != nil {
		fakes.Content.SetPosition(*step.PositionMs)
	}
	if step.DurationMs != nil {
		fakes.Content.SetDuration(*step.DurationMs)
	}

	from := machine.Session().State
	before := len(fakes.Calls())

	commands, err := machine.Apply(event)

	report := StepReport{
		Index: index,
		Event: event.String(),
		From:  from.String(),
		To:    machine.Session().State.String(),
		Commands: lo.Map(commands, func(c orchestrator.Command, _ int) string {
			return c.String()
		}),
		Calls:   fakes.Calls()[before:],
		Dropped: err != nil,
	}

	if step.Expect != nil {
		report.Failures = check(machine, report, *step.Expect)
	}

	return report
}

func check(machine *orchestrator.Machine, report StepReport, expect Expect) []string {
	var failures []string
	session := machine.Session()

	if expect.State != "" && !strings.EqualFold(expect.State, session.State.String()) {
		failures = append(failures, fmt.Sprintf("state: want %s, got %s", strings.ToUpper(expect.State), session.State))
	}

	if expect.Mode != "" && !strings.EqualFold(expect.Mode, session.State.Mode().String()) {
		failures = append(failures, fmt.Sprintf("mode: want %s, got %s", expect.Mode, session.State.Mode()))
	}

	for _, call := range expect.Calls {
		if !lo.Contains(report.Calls, call) {
			failures = append(failures, fmt.Sprintf("missing call %q", call))
		}
	}

	played := machine.Registry().PlayedOffsets()
	for _, offset := range expect.Played {
		if !lo.Contains(played, offset) {
			failures = append(failures, fmt.Sprintf("break at %d not played", offset))
		}
	}

	return failures
}
