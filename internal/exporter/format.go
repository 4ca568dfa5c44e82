package exporter

import (
	"fmt"
	"strconv"
)

// Nil pointers render as empty cells, never as zeros: a missing value and a
// zero value are different facts.

func formatFloat(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

func formatFloatPtr(v *float64, decimals int) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v, decimals)
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatBoolPtr(v *bool) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%t", *v)
}
