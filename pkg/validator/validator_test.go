package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type intake struct {
	CustomerID string           `json:"customerId" validate:"required,customer_id"`
	Amount     *decimal.Decimal `json:"amount" validate:"required"`
	Approvers  []string         `json:"approvers" validate:"min=1,distinct_max=3,dive,notblank"`
}

type batch struct {
	Requests []intake `json:"requests" validate:"required,dive"`
}

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestValidateStructured_Valid(t *testing.T) {
	v := New()

	errs := v.ValidateStructured(&batch{Requests: []intake{
		{CustomerID: "ab-1234-xy9", Amount: amount("0"), Approvers: []string{"john"}},
	}})

	assert.Nil(t, errs)
}

func TestValidateStructured_CustomerIDPattern(t *testing.T) {
	v := New()

	for _, id := range []string{"AB1234XYZ", "ABC-1234-XYZ", "AB-1234-XY", "A!-1234-XYZ", "AB-1234-XYZ0"} {
		errs := v.ValidateStructured(&intake{CustomerID: id, Amount: amount("1"), Approvers: []string{"john"}})
		assert.Contains(t, errs, "customerId", id)
	}
}

func TestValidateStructured_ReportsNestedPaths(t *testing.T) {
	v := New()

	errs := v.ValidateStructured(&batch{Requests: []intake{
		{CustomerID: "AB-1234-XYZ", Amount: amount("1"), Approvers: []string{"a"}},
		{CustomerID: "AB-1234-XYZ", Approvers: []string{"a", "b", "c", "d"}},
	}})

	assert.Equal(t, "This field is required", errs["requests[1].amount"])
	assert.Equal(t, "Must contain at most 3 distinct items", errs["requests[1].approvers"])
	assert.NotContains(t, errs, "requests[0].amount")
}

func TestValidateStructured_BlankApprover(t *testing.T) {
	v := New()

	errs := v.ValidateStructured(&intake{CustomerID: "AB-1234-XYZ", Amount: amount("1"), Approvers: []string{" "}})

	assert.Equal(t, "This field cannot be blank", errs["approvers[0]"])
}

func TestValidateStructured_ApproverLimitCountsDistinct(t *testing.T) {
	v := New()

	errs := v.ValidateStructured(&intake{CustomerID: "AB-1234-XYZ", Amount: amount("1"), Approvers: []string{"a", "a", "b", "c"}})
	assert.Nil(t, errs)

	errs = v.ValidateStructured(&intake{CustomerID: "AB-1234-XYZ", Amount: amount("1"), Approvers: []string{"a", "b", "c", "d"}})
	assert.Equal(t, "Must contain at most 3 distinct items", errs["approvers"])
}
