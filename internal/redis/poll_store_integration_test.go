package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/einartakla1/dncs-poll-api/internal/domain"
)

func testPoll(status domain.Status) domain.Poll {
	return domain.Poll{
		ID:       uuid.NewString(),
		Question: "Best fruit?",
		Options: []domain.Option{
			{ID: 0, Text: "Apple"},
			{ID: 1, Text: "Banana"},
		},
		Status:        status,
		ShowVoteCount: true,
		CreatedAt:     time.Now().Truncate(time.Millisecond).UTC(),
	}
}

func TestPollStore_Integration_CreateGetRoundtrip(t *testing.T) {
	store := NewPollStore(setupTestClient(t))
	ctx := context.Background()

	poll := testPoll(domain.StatusDraft)
	require.NoError(t, store.CreatePoll(ctx, poll))

	got, err := store.GetPoll(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, poll.ID, got.ID)
	assert.Equal(t, poll.Question, got.Question)
	assert.Equal(t, poll.Options, got.Options)
	assert.Equal(t, domain.StatusDraft, got.Status)
	assert.True(t, got.ShowVoteCount)
	assert.Equal(t, poll.CreatedAt, got.CreatedAt)
}

func TestPollStore_Integration_GetUnknownPoll(t *testing.T) {
	store := NewPollStore(setupTestClient(t))

	_, err := store.GetPoll(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrPollNotFound)
}

func TestPollStore_Integration_SetStatus(t *testing.T) {
	store := NewPollStore(setupTestClient(t))
	ctx := context.Background()

	poll := testPoll(domain.StatusDraft)
	require.NoError(t, store.CreatePoll(ctx, poll))

	require.NoError(t, store.SetStatus(ctx, poll.ID, domain.StatusActive))
	got, err := store.GetPoll(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, got.Status)

	assert.ErrorIs(t, store.SetStatus(ctx, uuid.NewString(), domain.StatusActive), domain.ErrPollNotFound)
}

func TestPollStore_Integration_DeleteCascades(t *testing.T) {
	client := setupTestClient(t)
	store := NewPollStore(client)
	ctx := context.Background()

	poll := testPoll(domain.StatusActive)
	require.NoError(t, store.CreatePoll(ctx, poll))
	_, err := store.CastVote(ctx, poll.ID, 0, "voter-1")
	require.NoError(t, err)

	require.NoError(t, store.DeletePoll(ctx, poll.ID))

	_, err = store.GetPoll(ctx, poll.ID)
	assert.ErrorIs(t, err, domain.ErrPollNotFound)

	isMember, err := client.SIsMember(ctx, pollIndexKey, poll.ID).Result()
	require.NoError(t, err)
	assert.False(t, isMember, "index entry removed")

	exists, err := client.Exists(ctx, votersKey(poll.ID)).Result()
	require.NoError(t, err)
	assert.Zero(t, exists, "voter set removed")

	assert.ErrorIs(t, store.DeletePoll(ctx, poll.ID), domain.ErrPollNotFound)
}

func TestPollStore_Integration_ListSkipsDanglingIDs(t *testing.T) {
	client := setupTestClient(t)
	store := NewPollStore(client)
	ctx := context.Background()

	poll := testPoll(domain.StatusActive)
	require.NoError(t, store.CreatePoll(ctx, poll))

	// Simulate a crashed delete: record gone, index entry left behind.
	dangling := uuid.NewString()
	require.NoError(t, client.SAdd(ctx, pollIndexKey, dangling).Err())

	polls, err := store.ListPolls(ctx)
	require.NoError(t, err)
	for _, p := range polls {
		assert.NotEqual(t, dangling, p.ID)
	}
}

func TestPollStore_Integration_CastVoteOutcomes(t *testing.T) {
	store := NewPollStore(setupTestClient(t))
	ctx := context.Background()

	poll := testPoll(domain.StatusActive)
	require.NoError(t, store.CreatePoll(ctx, poll))

	got, err := store.CastVote(ctx, poll.ID, 1, "voter-1")
	require.NoError(t, err)
	assert.Equal(t, "Best fruit?", got.Question)
	assert.Equal(t, int64(0), got.Options[0].Votes)
	assert.Equal(t, int64(1), got.Options[1].Votes)
	assert.True(t, got.ShowVoteCount)

	_, err = store.CastVote(ctx, poll.ID, 0, "voter-1")
	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)

	_, err = store.CastVote(ctx, poll.ID, 2, "voter-2")
	assert.ErrorIs(t, err, domain.ErrInvalidOption)

	_, err = store.CastVote(ctx, uuid.NewString(), 0, "voter-2")
	assert.ErrorIs(t, err, domain.ErrPollNotFound)

	require.NoError(t, store.SetStatus(ctx, poll.ID, domain.StatusClosed))
	_, err = store.CastVote(ctx, poll.ID, 0, "voter-2")
	assert.ErrorIs(t, err, domain.ErrPollNotVotable)

	// Failed attempts never recorded the voter.
	voted, err := store.HasVoted(ctx, poll.ID, "voter-2")
	require.NoError(t, err)
	assert.False(t, voted)
}

func TestPollStore_Integration_ConcurrentVotesAllCounted(t *testing.T) {
	store := NewPollStore(setupTestClient(t))
	ctx := context.Background()

	poll := testPoll(domain.StatusActive)
	require.NoError(t, store.CreatePoll(ctx, poll))

	const voters = 50
	var wg sync.WaitGroup
	errs := make(chan error, voters)
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.CastVote(ctx, poll.ID, 0, uuid.NewString())
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := store.GetPoll(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(voters), got.Options[0].Votes, "no increments lost under concurrency")
}

func TestPollStore_Integration_UpdateOverwritesOptions(t *testing.T) {
	store := NewPollStore(setupTestClient(t))
	ctx := context.Background()

	poll := testPoll(domain.StatusActive)
	require.NoError(t, store.CreatePoll(ctx, poll))
	_, err := store.CastVote(ctx, poll.ID, 0, "voter-1")
	require.NoError(t, err)

	poll.Question = "Best snack?"
	poll.Options = []domain.Option{
		{ID: 0, Text: "Banana", Votes: 0},
		{ID: 1, Text: "Apple", Votes: 1},
		{ID: 2, Text: "Cherry", Votes: 0},
	}
	require.NoError(t, store.UpdatePoll(ctx, poll))

	got, err := store.GetPoll(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, "Best snack?", got.Question)
	assert.Equal(t, poll.Options, got.Options)
	assert.Equal(t, domain.StatusActive, got.Status, "update never touches status")
}
