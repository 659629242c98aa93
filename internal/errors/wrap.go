package errors

import (
	"fmt"
	"strings"
)

// Chain returns the full error chain as a slice of error messages.
func Chain(err error) []string {
	var chain []string
	for err != nil {
		chain = append(chain, err.Error())
		err = Unwrap(err)
	}
	return chain
}

// RootCause returns the deepest wrapped error in the chain.
func RootCause(err error) error {
	for {
		unwrapped := Unwrap(err)
		if unwrapped == nil {
			return err
		}
		err = unwrapped
	}
}

// FormatForDisplay formats an error for the terminal: the category-aware
// message followed by example commands when any are known.
func FormatForDisplay(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(FormatByCategory(err))

	if IsUserError(err) {
		if examples := GetExamples(err); len(examples) > 0 {
			sb.WriteString("\n\nExamples:\n")
			for _, ex := range examples {
				sb.WriteString("  ")
				sb.WriteString(ex)
				sb.WriteString("\n")
			}
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatDebugError formats an error with its chain, category and root cause.
func FormatDebugError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Error: ")
	sb.WriteString(err.Error())
	sb.WriteString("\n")

	if chain := Chain(err); len(chain) > 1 {
		sb.WriteString("\nError chain:\n")
		for i, msg := range chain {
			fmt.Fprintf(&sb, "  %d. %s\n", i+1, msg)
		}
	}

	fmt.Fprintf(&sb, "\nCategory: %s\n", Classify(err))

	if suggestion := GetSuggestion(err); suggestion != "" {
		fmt.Fprintf(&sb, "\nSuggestion: %s\n", suggestion)
	}

	if root := RootCause(err); root != err {
		fmt.Fprintf(&sb, "\nRoot cause: %v\n", root)
	}
	return sb.String()
}
