package dto

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/complaint-desk/complaint-service/pkg/util"
)

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	err := Validate(UserRegisterRequest{Name: "", Email: "not-an-email", Password: "123"})
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus)
	assert.Equal(t, apperrors.CodeValidation, domainErr.Code)
	assert.Contains(t, domainErr.Details, "name")
	assert.Contains(t, domainErr.Details, "email")
	assert.Contains(t, domainErr.Details, "password")
}

func TestValidate_ComplaintLimits(t *testing.T) {
	ok := CreateComplaintRequest{Title: "Printer", Description: "Jammed"}
	assert.NoError(t, Validate(ok))

	tooLong := CreateComplaintRequest{Title: strings.Repeat("x", 201), Description: "d"}
	err := Validate(tooLong)
	require.Error(t, err)
	assert.Equal(t, "title cannot exceed 200 characters", apperrors.ToDomainError(err).Details["title"])

	badCategory := CreateComplaintRequest{Title: "t", Description: "d", Category: "weather"}
	assert.Error(t, Validate(badCategory))

	assert.Error(t, Validate(AddNoteRequest{Content: strings.Repeat("n", 1001)}))
	assert.NoError(t, Validate(AddNoteRequest{Content: strings.Repeat("n", 1000)}))
}
