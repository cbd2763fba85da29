package validator_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-billing-api/pkg/validator"
)

type itemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

type billInput struct {
	CustomerName string      `json:"customer_name" validate:"required"`
	Items        []itemInput `json:"items" validate:"required,min=1,dive"`
}

func TestStruct_Valido(t *testing.T) {
	in := billInput{CustomerName: "Ana", Items: []itemInput{{ProductID: "p1", Quantity: 1}}}
	assert.NoError(t, validator.Struct(in))
}

func TestStruct_CamposInvalidos(t *testing.T) {
	in := billInput{Items: []itemInput{{ProductID: "", Quantity: 0}}}
	err := validator.Struct(in)
	require.Error(t, err)

	var verrs validator.Errors
	require.True(t, errors.As(err, &verrs))
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "billInput.customer_name")
	assert.Contains(t, fields, "billInput.items[0].product_id")
	assert.Contains(t, fields, "billInput.items[0].quantity")
	assert.Contains(t, err.Error(), "customer_name")
}
