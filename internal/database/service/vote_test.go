package service_test

import (
	"testing"

	"github.com/agorahq/agora/internal/database/service"
	"github.com/agorahq/agora/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
)

func TestTransitionDeltas(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		prev     int
		next     int
		expected []service.ReputationDelta
	}{
		{
			name: "new upvote",
			prev: 0,
			next: 1,
			expected: []service.ReputationDelta{
				{Event: enum.ReputationEventUpvoteReceived, Points: service.PointsUpvoteReceived},
			},
		},
		{
			name: "new downvote",
			prev: 0,
			next: -1,
			expected: []service.ReputationDelta{
				{Event: enum.ReputationEventDownvoteReceived, Points: service.PointsDownvoteReceived},
			},
		},
		{
			name: "remove upvote",
			prev: 1,
			next: 0,
			expected: []service.ReputationDelta{
				{Event: enum.ReputationEventUpvoteRemoved, Points: -service.PointsUpvoteReceived},
			},
		},
		{
			name: "remove downvote",
			prev: -1,
			next: 0,
			expected: []service.ReputationDelta{
				{Event: enum.ReputationEventDownvoteRemoved, Points: -service.PointsDownvoteReceived},
			},
		},
		{
			name: "switch up to down",
			prev: 1,
			next: -1,
			expected: []service.ReputationDelta{
				{Event: enum.ReputationEventUpvoteRemoved, Points: -service.PointsUpvoteReceived},
				{Event: enum.ReputationEventDownvoteReceived, Points: service.PointsDownvoteReceived},
			},
		},
		{
			name: "switch down to up",
			prev: -1,
			next: 1,
			expected: []service.ReputationDelta{
				{Event: enum.ReputationEventDownvoteRemoved, Points: -service.PointsDownvoteReceived},
				{Event: enum.ReputationEventUpvoteReceived, Points: service.PointsUpvoteReceived},
			},
		},
		{
			name:     "no-op removal",
			prev:     0,
			next:     0,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, service.TransitionDeltas(tt.prev, tt.next))
		})
	}
}

func TestTransitionDeltasSumToZeroOnRoundTrip(t *testing.T) {
	t.Parallel()

	// Casting then removing a vote must leave the author's total unchanged.
	for _, vote := range []int{1, -1} {
		total := 0
		for _, delta := range service.TransitionDeltas(0, vote) {
			total += delta.Points
		}
		for _, delta := range service.TransitionDeltas(vote, 0) {
			total += delta.Points
		}
		assert.Zero(t, total)
	}
}
