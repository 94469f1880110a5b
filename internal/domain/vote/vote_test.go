package vote

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVoteValidation(t *testing.T) {
	entity, voter := uuid.New(), uuid.New()

	_, err := NewVote("outfit", entity, voter, Up)
	assert.Error(t, err)

	_, err = NewVote(EntityEnsemble, uuid.Nil, voter, Up)
	assert.Error(t, err)

	_, err = NewVote(EntityEnsemble, entity, voter, "sideways")
	assert.Error(t, err)

	v, err := NewVote(EntityDefi, entity, voter, Down)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, v.ID)
}

func TestAggregateScore(t *testing.T) {
	entity := uuid.New()
	var votes []*Vote
	for range 3 {
		votes = append(votes, &Vote{EntityType: EntityEnsemble, EntityID: entity, VoterID: uuid.New(), Value: Up})
	}
	votes = append(votes, &Vote{EntityType: EntityEnsemble, EntityID: entity, VoterID: uuid.New(), Value: Down})

	tally := Aggregate(votes)

	assert.Equal(t, Tally{Up: 3, Down: 1}, tally)
	assert.Equal(t, 2, tally.Score())
}

func TestAggregateSameVoterCountedOnce(t *testing.T) {
	entity, voter := uuid.New(), uuid.New()
	votes := []*Vote{
		{EntityID: entity, VoterID: voter, Value: Up},
		{EntityID: entity, VoterID: voter, Value: Up},
		{EntityID: entity, VoterID: voter, Value: Down},
		nil,
	}

	tally := Aggregate(votes)

	assert.Equal(t, 1, tally.Total())
	assert.Equal(t, -1, tally.Score())
}

func TestAggregateEmpty(t *testing.T) {
	assert.Equal(t, Tally{}, Aggregate(nil))
}

func TestValueScan(t *testing.T) {
	var v Value
	require.NoError(t, v.Scan([]byte("up")))
	assert.Equal(t, Up, v)
	assert.Error(t, v.Scan("maybe"))
	assert.Error(t, v.Scan(42))
}
