package cli

import (
	"fmt"
	"slices"

	"github.com/AlecAivazis/survey/v2"

	"github.com/Shirsha07/nifty-200-dashboard/internal/dashboard"
	"github.com/Shirsha07/nifty-200-dashboard/internal/model"
)

// promptRequest asks for the chart symbol, timeframe and interval, starting from current.
func promptRequest(symbols []string, current dashboard.Request) (dashboard.Request, error) {
	req := current

	symbolPrompt := &survey.Select{
		Message:  "Select a stock:",
		Options:  symbols,
		Default:  selectDefault(symbols, current.Symbol),
		PageSize: 15,
		Help:     "Type to filter the Nifty 200 universe",
	}
	if err := survey.AskOne(symbolPrompt, &req.Symbol, survey.WithValidator(survey.Required)); err != nil {
		return current, fmt.Errorf("select symbol: %w", err)
	}

	var period string
	periods := stringsOf(model.Periods)
	periodPrompt := &survey.Select{
		Message: "Select timeframe:",
		Options: periods,
		Default: selectDefault(periods, string(current.Period), string(model.Period1y)),
	}
	if err := survey.AskOne(periodPrompt, &period); err != nil {
		return current, fmt.Errorf("select timeframe: %w", err)
	}
	req.Period = model.Period(period)

	var interval string
	intervals := stringsOf(model.Intervals)
	intervalPrompt := &survey.Select{
		Message: "Select interval:",
		Options: intervals,
		Default: selectDefault(intervals, string(current.Interval), string(model.Interval1d)),
	}
	if err := survey.AskOne(intervalPrompt, &interval); err != nil {
		return current, fmt.Errorf("select interval: %w", err)
	}
	req.Interval = model.Interval(interval)

	return req, nil
}

func stringsOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// selectDefault returns the first candidate present in options, else the first option.
// survey rejects a default that is not one of the options.
func selectDefault(options []string, candidates ...string) string {
	for _, c := range candidates {
		if slices.Contains(options, c) {
			return c
		}
	}
	if len(options) > 0 {
		return options[0]
	}
	return ""
}
