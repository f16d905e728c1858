package policy

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nafood/nafood-backend-go/models"
)

func order(userID int64, status models.OrderStatus) *models.Order {
	return &models.Order{ID: 101, UserID: userID, Status: status}
}

func TestAuthorizeOrderUpdate(t *testing.T) {
	tests := []struct {
		name       string
		role       models.Role
		callerID   int64
		order      *models.Order
		upd        OrderUpdate
		wantStatus int // 0 means allowed
	}{
		{
			name:     "user cancels own pending order",
			role:     models.RoleUser,
			callerID: 7,
			order:    order(7, models.OrderStatusPending),
			upd:      OrderUpdate{Status: models.OrderStatusCancelled},
		},
		{
			name:       "user cancels someone else's order",
			role:       models.RoleUser,
			callerID:   8,
			order:      order(7, models.OrderStatusPending),
			upd:        OrderUpdate{Status: models.OrderStatusCancelled},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "user sets delivered",
			role:       models.RoleUser,
			callerID:   7,
			order:      order(7, models.OrderStatusPending),
			upd:        OrderUpdate{Status: models.OrderStatusDelivered},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "user cancels shipping order",
			role:       models.RoleUser,
			callerID:   7,
			order:      order(7, models.OrderStatusShipping),
			upd:        OrderUpdate{Status: models.OrderStatusCancelled},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "user edits order fields",
			role:       models.RoleUser,
			callerID:   7,
			order:      order(7, models.OrderStatusPending),
			upd:        OrderUpdate{OtherFields: true},
			wantStatus: http.StatusForbidden,
		},
		{
			name:     "staff moves pending to processing",
			role:     models.RoleStaff,
			callerID: 99,
			order:    order(7, models.OrderStatusPending),
			upd:      OrderUpdate{Status: models.OrderStatusProcessing},
		},
		{
			name:     "staff moves delivered back to pending",
			role:     models.RoleStaff,
			callerID: 99,
			order:    order(7, models.OrderStatusDelivered),
			upd:      OrderUpdate{Status: models.OrderStatusPending},
		},
		{
			name:     "admin edits customer fields",
			role:     models.RoleAdmin,
			callerID: 99,
			order:    order(7, models.OrderStatusShipping),
			upd:      OrderUpdate{OtherFields: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := AuthorizeOrderUpdate(tt.role, tt.callerID, tt.order, tt.upd)
			if tt.wantStatus == 0 {
				assert.Nil(t, d)
				return
			}
			require.NotNil(t, d)
			assert.Equal(t, tt.wantStatus, d.Status)
			assert.NotEmpty(t, d.Message)
		})
	}
}

func TestAuthorizeOrderRead(t *testing.T) {
	o := order(7, models.OrderStatusPending)

	assert.Nil(t, AuthorizeOrderRead(models.RoleUser, 7, o))
	assert.Nil(t, AuthorizeOrderRead(models.RoleStaff, 99, o))
	assert.Nil(t, AuthorizeOrderRead(models.RoleAdmin, 99, o))

	d := AuthorizeOrderRead(models.RoleUser, 8, o)
	require.NotNil(t, d)
	assert.Equal(t, http.StatusForbidden, d.Status)
}

func TestValidateReviewCreate(t *testing.T) {
	delivered := order(7, models.OrderStatusDelivered)

	t.Run("allowed", func(t *testing.T) {
		assert.Nil(t, ValidateReviewCreate(delivered, 7, nil))
	})

	t.Run("order missing", func(t *testing.T) {
		d := ValidateReviewCreate(nil, 7, nil)
		require.NotNil(t, d)
		assert.Equal(t, "Đơn hàng không tồn tại", d.Message)
	})

	t.Run("not owner", func(t *testing.T) {
		d := ValidateReviewCreate(delivered, 8, nil)
		require.NotNil(t, d)
		assert.Equal(t, "Đơn hàng không thuộc về bạn", d.Message)
	})

	t.Run("not delivered", func(t *testing.T) {
		d := ValidateReviewCreate(order(7, models.OrderStatusShipping), 7, nil)
		require.NotNil(t, d)
		assert.Equal(t, "Bạn chỉ có thể đánh giá khi đơn hàng đã được giao", d.Message)
	})

	t.Run("already reviewed", func(t *testing.T) {
		existing := &models.Review{ID: 1, UserID: 7, ProductID: 1}
		d := ValidateReviewCreate(delivered, 7, existing)
		require.NotNil(t, d)
		assert.Equal(t, "Bạn đã đánh giá sản phẩm này rồi", d.Message)
	})

	t.Run("chain order: ownership before status", func(t *testing.T) {
		// a foreign, undelivered order must fail on ownership first
		d := ValidateReviewCreate(order(7, models.OrderStatusPending), 8, nil)
		require.NotNil(t, d)
		assert.Equal(t, "Đơn hàng không thuộc về bạn", d.Message)
	})
}
