package app

import (
	"context"
	"testing"

	"jobdesk/internal/common"
	"jobdesk/internal/domain/job"
	"jobdesk/internal/domain/user"
)

func TestJobCreateStartsPending(t *testing.T) {
	repo := newFakeJobRepo()
	svc := NewJobService(repo)

	posting, err := svc.Create(context.Background(), job.Job{
		OwnerID:     common.NewUUID(),
		Title:       "Backend Engineer",
		CompanyName: "Acme",
		Status:      job.StatusAccepted, // callers cannot pre-approve
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if posting.Status != job.StatusPending {
		t.Fatalf("expected pending, got %s", posting.Status)
	}
}

func TestJobCreateValidation(t *testing.T) {
	svc := NewJobService(newFakeJobRepo())
	_, err := svc.Create(context.Background(), job.Job{OwnerID: common.NewUUID()})
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestJobGetVisibility(t *testing.T) {
	repo := newFakeJobRepo()
	svc := NewJobService(repo)
	owner := common.NewUUID()
	posting, err := repo.Create(context.Background(), job.Job{
		OwnerID:     owner,
		Title:       "Backend Engineer",
		CompanyName: "Acme",
		Status:      job.StatusPending,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Pending postings hide from the public and from other users.
	if _, err := svc.Get(context.Background(), posting.ID, "", ""); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found for anonymous viewer, got %v", err)
	}
	if _, err := svc.Get(context.Background(), posting.ID, common.NewUUID(), user.RoleSeeker); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found for stranger, got %v", err)
	}

	if _, err := svc.Get(context.Background(), posting.ID, owner, user.RoleEmployer); err != nil {
		t.Fatalf("expected owner to see pending posting, got %v", err)
	}
	if _, err := svc.Get(context.Background(), posting.ID, common.NewUUID(), user.RoleAdmin); err != nil {
		t.Fatalf("expected admin to see pending posting, got %v", err)
	}

	if _, err := repo.UpdateStatus(context.Background(), posting.ID, job.StatusAccepted); err != nil {
		t.Fatalf("moderate: %v", err)
	}
	if _, err := svc.Get(context.Background(), posting.ID, "", ""); err != nil {
		t.Fatalf("expected accepted posting to be public, got %v", err)
	}
}

func TestJobModerate(t *testing.T) {
	repo := newFakeJobRepo()
	svc := NewJobService(repo)
	posting, err := repo.Create(context.Background(), job.Job{
		OwnerID:     common.NewUUID(),
		Title:       "Backend Engineer",
		CompanyName: "Acme",
		Status:      job.StatusPending,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	updated, err := svc.Moderate(context.Background(), posting.ID, "Accepted")
	if err != nil {
		t.Fatalf("moderate: %v", err)
	}
	if updated.Status != job.StatusAccepted {
		t.Fatalf("expected accepted, got %s", updated.Status)
	}

	if _, err := svc.Moderate(context.Background(), posting.ID, "archived"); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
