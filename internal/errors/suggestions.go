package errors

import "errors"

// Suggestions maps common errors to helpful suggestions.
var Suggestions = map[error]string{
	ErrInvalidDate:        "Use YYYY-MM-DD (e.g. 2020-12-01) or a relative date like '9 days ago' or 'yesterday'.",
	ErrMissingCredential:  "Pass the value as a flag, set it in the environment or add it to the config file. Run 'toggl2slack config show' to inspect.",
	ErrInvalidFormat:      "Use one of: cli, json, plain.",
	ErrTogglAPI:           "Check the Toggl API token and workspace id. The token is on your Toggl profile page.",
	ErrSlackAPI:           "Check the Slack token scopes (chat:write) and that the bot is a member of the channel.",
	ErrNetworkUnavailable: "Check your internet connection and try again.",
	ErrTimeout:            "The request took too long. Try again or raise http.timeout in the config file.",
}

// priority fixes the lookup order so that the most specific suggestion wins
// when an error matches several sentinels.
var priority = []error{
	ErrInvalidDate,
	ErrMissingCredential,
	ErrInvalidFormat,
	ErrTimeout,
	ErrNetworkUnavailable,
	ErrSlackAPI,
	ErrTogglAPI,
}

// GetSuggestion returns a suggestion for an error, if available.
// An explicit UserError suggestion takes precedence over the sentinel table.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	if ue, ok := AsUserError(err); ok && ue.Suggestion != "" {
		return ue.Suggestion
	}

	for _, known := range priority {
		if errors.Is(err, known) {
			return Suggestions[known]
		}
	}
	return ""
}

// CommandExamples provides example commands for common errors.
var CommandExamples = map[error][]string{
	ErrInvalidDate: {
		"toggl2slack report --from 2020-12-01 --to 2020-12-31",
		"toggl2slack report --from '9 days ago' --to '3 days ago'",
	},
	ErrMissingCredential: {
		"TOGGL_API_TOKEN=... SLACK_TOKEN=... toggl2slack report --workspace 123 --slack-channel '#time'",
		"toggl2slack report --dry-run --toggl-token ... --workspace 123",
	},
}

// GetExamples returns example commands for an error.
func GetExamples(err error) []string {
	for _, known := range priority {
		if examples, ok := CommandExamples[known]; ok && errors.Is(err, known) {
			return examples
		}
	}
	return nil
}
