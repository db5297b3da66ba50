package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rina-ui/Front-TP-JEE/internal/models/dto"
)

func TestStructAcceptsValidRegistration(t *testing.T) {
	req := dto.RegisterRequest{
		FirstName:       "Awa",
		LastName:        "Diallo",
		BirthDate:       "1994-03-12",
		Email:           "awa@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		City:            "Dakar",
		Nationality:     "SN",
		NationalID:      "1234567",
	}
	assert.NoError(t, Struct(req))
}

func TestStructReportsFieldsByJSONName(t *testing.T) {
	req := dto.RegisterRequest{
		FirstName:       "A",
		LastName:        "Diallo",
		BirthDate:       "12/03/1994",
		Email:           "not-an-email",
		Password:        "secret1",
		ConfirmPassword: "secret2",
		City:            "Dakar",
		Nationality:     "SN",
		NationalID:      "12AB",
	}
	err := Struct(req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "firstName")
	assert.Contains(t, verr.Fields, "birthDate")
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "confirmPassword")
	assert.Contains(t, verr.Fields, "nationalId")
	assert.NotContains(t, verr.Fields, "lastName")
}

func TestStructTransferRejectsSameAccount(t *testing.T) {
	err := Struct(dto.TransferRequest{
		SourceAccountNumber:      "CPT-1",
		DestinationAccountNumber: "CPT-1",
		Amount:                   10,
	})
	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "must differ from SourceAccountNumber", verr.Fields["destinationAccountNumber"])
}

func TestStructDepositMinimumAmount(t *testing.T) {
	err := Struct(dto.DepositRequest{AccountNumber: "CPT-1", Amount: 0.5})
	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "amount")
}
