package service

import "github.com/nellermoe/storybridge-backend/internal/domain"

// rewardPerHop is the number of points granted per hop of path reduction.
const rewardPerHop = 10

// ShareScorer derives the reward for a share from the change in shortest
// path length between the story's author and the receiver.
type ShareScorer struct{}

// Score compares the author-to-receiver path measured before the share
// (with this story's earlier share edges excluded) against the path
// measured after the new edges were persisted. The reduction may be
// negative or zero; points are only granted for a strictly positive
// reduction. If either endpoint pair is disconnected in the before
// measurement, no baseline exists and the share earns nothing.
func (ShareScorer) Score(before, after domain.Path) (reduction, points int) {
	if !before.Found || !after.Found {
		return 0, 0
	}
	reduction = before.Hops - after.Hops
	if reduction > 0 {
		points = reduction * rewardPerHop
	}
	return reduction, points
}
