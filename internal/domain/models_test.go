package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewLoanRequest_CollapsesRepeatedApprovers(t *testing.T) {
	req := NewLoanRequest("AB-1234-XYZ", decimal.NewFromInt(10), []string{"john", "anna", "john"}, time.Now())

	assert.Equal(t, []string{"anna", "john"}, req.Approvers())
	assert.False(t, req.FullyApproved())
}

func TestLoanRequest_Approve(t *testing.T) {
	req := NewLoanRequest("AB-1234-XYZ", decimal.NewFromInt(10), []string{"john", "anna"}, time.Now())

	assert.False(t, req.Approve("mike"))
	assert.True(t, req.Approve("john"))
	assert.True(t, req.Approve("john"))
	assert.False(t, req.FullyApproved())
	assert.True(t, req.Approve("anna"))
	assert.True(t, req.FullyApproved())
}

func TestLoanRequest_EmptyApprovalsNeverComplete(t *testing.T) {
	req := NewLoanRequest("AB-1234-XYZ", decimal.NewFromInt(10), nil, time.Now())

	assert.False(t, req.FullyApproved())
}

func TestLoanRequest_CloneIsDeep(t *testing.T) {
	req := NewLoanRequest("AB-1234-XYZ", decimal.NewFromInt(10), []string{"john"}, time.Now())

	c := req.Clone()
	c.Approve("john")

	assert.False(t, req.Approvals["john"].Approved)
	assert.True(t, c.Approvals["john"].Approved)
}
