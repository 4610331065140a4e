package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobStatusCanTransition(t *testing.T) {
	tests := []struct {
		from, to JobStatus
		want     bool
	}{
		{JobStatusPending, JobStatusApproved, true},
		{JobStatusPending, JobStatusRejected, true},
		{JobStatusPending, JobStatusPending, false},
		{JobStatusApproved, JobStatusRejected, false},
		{JobStatusRejected, JobStatusApproved, false},
		{JobStatusApproved, JobStatusPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestJobFilterNormalize(t *testing.T) {
	f := JobFilter{Page: 0, Limit: 500}
	f.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, MaxPageSize, f.Limit)
	assert.Equal(t, 0, f.Offset())

	f = JobFilter{Page: 3}
	f.Normalize()
	assert.Equal(t, DefaultPageSize, f.Limit)
	assert.Equal(t, 20, f.Offset())
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 115)
	assert.Equal(t, 12, p.TotalPages)

	p = NewPagination(1, 10, 0)
	assert.Equal(t, 0, p.TotalPages)
}

func TestConversionRateOf(t *testing.T) {
	assert.Equal(t, 0.0, ConversionRateOf(0, 3))
	assert.Equal(t, 33.33, ConversionRateOf(3, 1))
	assert.Equal(t, 12.5, ConversionRateOf(8, 1))
}

func TestRole(t *testing.T) {
	assert.True(t, RoleRecruiter.CanPostJobs())
	assert.True(t, RoleAdmin.CanPostJobs())
	assert.False(t, RoleCandidate.CanPostJobs())
	assert.False(t, Role("guest").Valid())
}
