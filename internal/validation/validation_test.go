package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/fring-api/internal/domain/common"
)

func TestLengthMessages(t *testing.T) {
	err := ValidateMaxLength("ééééé", 4, "name")
	require.Error(t, err)
	assert.Equal(t, "name must be at most 4 characters long", err.Error())
	assert.True(t, common.IsKind(err, common.KindValidation))

	assert.NoError(t, ValidateMaxLength("éééé", 4, "name"))
	assert.Error(t, ValidateMinLength(" a ", 2, "username"))
}

func TestParseUUID(t *testing.T) {
	id := uuid.New()
	got, err := ParseUUID(" "+id.String()+" ", "id")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseUUID("42", "id")
	assert.True(t, common.IsKind(err, common.KindValidation))
	_, err = ParseUUID(uuid.Nil.String(), "id")
	assert.Error(t, err)
}

func TestValidateDateRange(t *testing.T) {
	now := time.Now()
	assert.NoError(t, ValidateDateRange(now, now.Add(time.Hour)))
	assert.Error(t, ValidateDateRange(now, now))
	assert.Error(t, ValidateDateRange(time.Time{}, now))
}

func TestInvalidKeepsExistingKinds(t *testing.T) {
	assert.Nil(t, Invalid(nil))
	assert.True(t, common.IsKind(Invalid(errors.New("name is required")), common.KindValidation))

	conflict := common.NewConflictError("taken")
	assert.Same(t, conflict, Invalid(conflict))
}

func TestChallengeTitle(t *testing.T) {
	v := ChallengeValidation{}
	assert.Error(t, v.ValidateTitle("  "))
	assert.Error(t, v.ValidateTitle("ab"))
	assert.NoError(t, v.ValidateTitle("Look d'hiver"))
}
