package models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucketSeverity(t *testing.T) {
	tests := []struct {
		score    float64
		expected string
	}{
		{0.0, SeverityModerate},
		{0.3, SeverityModerate},
		{0.6, SeverityModerate},
		{0.61, SeverityImportant},
		{0.75, SeverityImportant},
		{0.89, SeverityImportant},
		{0.9, SeverityCritical},
		{1.0, SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.2f", tt.score), func(t *testing.T) {
			assert.Equal(t, tt.expected, BucketSeverity(tt.score))
		})
	}
}
