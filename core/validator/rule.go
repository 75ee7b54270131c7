package validator

// rule is a single check on the current value of a StringValidator.
type rule struct {
	check   func(value string) bool
	message string
}

func message(custom []string, fallback string) string {
	if len(custom) > 0 && custom[0] != "" {
		return custom[0]
	}
	return fallback
}
