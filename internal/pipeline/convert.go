package pipeline

import "strconv"

// The provider marks missing values as "." in economic series and
// "None" in financial statements. Both become SQL NULL.

func toFloat(s string) any {
	if s == "" || s == "." || s == "None" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return f
}

func toInt(s string) any {
	if s == "" || s == "." || s == "None" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return n
}
