// Package committer collects Spanner mutations into a plan and applies them
// in one commit.
//
// # Usage Pattern
//
// A repository write builds its record mutation, appends one outbox row per
// domain event recorded on the aggregate, and applies the plan:
//
//	plan := committer.NewPlan()
//	plan.Add(advertModel.UpdateMut(id, fields))
//	for _, event := range advert.DomainEvents() {
//	    plan.Add(outboxModel.InsertMut(eventRow))
//	}
//	return committer.Apply(ctx, plan)
//
// The record change and its events become visible together or not at all.
package committer

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
)

// CommitPlan is a typed wrapper around Spanner mutations.
type CommitPlan struct {
	mutations []*spanner.Mutation
}

// NewPlan creates a new empty CommitPlan.
func NewPlan() *CommitPlan {
	return &CommitPlan{
		mutations: make([]*spanner.Mutation, 0),
	}
}

// Add adds a mutation to the plan.
// Nil mutations are silently ignored for convenience.
func (cp *CommitPlan) Add(mut *spanner.Mutation) {
	if mut != nil {
		cp.mutations = append(cp.mutations, mut)
	}
}

// AddMultiple adds multiple mutations to the plan.
func (cp *CommitPlan) AddMultiple(muts []*spanner.Mutation) {
	for _, mut := range muts {
		cp.Add(mut)
	}
}

// Mutations returns all collected mutations.
func (cp *CommitPlan) Mutations() []*spanner.Mutation {
	return cp.mutations
}

// IsEmpty returns true if the plan has no mutations.
func (cp *CommitPlan) IsEmpty() bool {
	return len(cp.mutations) == 0
}

// Count returns the number of mutations in the plan.
func (cp *CommitPlan) Count() int {
	return len(cp.mutations)
}

// Applier is the subset of *spanner.Client used by Committer.
type Applier interface {
	Apply(ctx context.Context, ms []*spanner.Mutation, opts ...spanner.ApplyOption) (time.Time, error)
}

// Committer applies CommitPlans.
type Committer struct {
	client Applier
}

// NewCommitter creates a new Committer.
func NewCommitter(client Applier) *Committer {
	return &Committer{client: client}
}

// Apply executes the CommitPlan atomically.
// The returned error wraps the Spanner error so callers can inspect its code.
func (c *Committer) Apply(ctx context.Context, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil
	}

	if _, err := c.client.Apply(ctx, plan.Mutations()); err != nil {
		return fmt.Errorf("failed to apply commit plan: %w", err)
	}

	return nil
}
