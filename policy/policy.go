// Package policy centralizes the role/ownership/state rules for orders and
// reviews, so the handlers contain no ad-hoc role branching and the rules can
// be tested without HTTP plumbing.
package policy

import (
	"net/http"

	"github.com/nafood/nafood-backend-go/models"
)

// Denial is a rejected action: the HTTP status to answer with and a
// user-facing message. A nil *Denial means the action is allowed.
type Denial struct {
	Status  int
	Message string
}

func deny(status int, message string) *Denial {
	return &Denial{Status: status, Message: message}
}

// OrderUpdate describes what an order update request is trying to change.
type OrderUpdate struct {
	Status models.OrderStatus // empty when the request leaves status alone
	// OtherFields is set when the request touches anything besides status
	// (notes, customer snapshot fields).
	OtherFields bool
}

// AuthorizeOrderUpdate decides whether the caller may apply the update.
//
// Role user: only the owner, and the only permitted change is cancelling an
// order that is still pending. Staff and admin transition freely; the
// forward flow is a client affordance, not a server rule.
func AuthorizeOrderUpdate(role models.Role, callerID int64, order *models.Order, upd OrderUpdate) *Denial {
	if role.IsStaff() {
		return nil
	}

	if order.UserID != callerID {
		return deny(http.StatusForbidden, "Bạn không có quyền cập nhật đơn hàng này")
	}
	if upd.OtherFields {
		return deny(http.StatusForbidden, "Bạn không có quyền thay đổi thông tin đơn hàng")
	}
	if upd.Status != models.OrderStatusCancelled {
		return deny(http.StatusForbidden, "Bạn chỉ có thể hủy đơn hàng của mình")
	}
	if order.Status != models.OrderStatusPending {
		return deny(http.StatusBadRequest, "Chỉ có thể hủy đơn hàng đang chờ xử lý")
	}
	return nil
}

// AuthorizeOrderRead: users see only their own orders.
func AuthorizeOrderRead(role models.Role, callerID int64, order *models.Order) *Denial {
	if role.IsStaff() || order.UserID == callerID {
		return nil
	}
	return deny(http.StatusForbidden, "Bạn không có quyền truy cập đơn hàng này")
}

// ValidateReviewCreate runs the review-eligibility chain, short-circuiting on
// the first failure. order is the looked-up target order (nil when absent)
// and existing the caller's prior non-rejected review of the product (nil
// when absent).
func ValidateReviewCreate(order *models.Order, callerID int64, existing *models.Review) *Denial {
	if order == nil {
		return deny(http.StatusBadRequest, "Đơn hàng không tồn tại")
	}
	if order.UserID != callerID {
		return deny(http.StatusBadRequest, "Đơn hàng không thuộc về bạn")
	}
	if order.Status != models.OrderStatusDelivered {
		return deny(http.StatusBadRequest, "Bạn chỉ có thể đánh giá khi đơn hàng đã được giao")
	}
	if existing != nil {
		return deny(http.StatusBadRequest, "Bạn đã đánh giá sản phẩm này rồi")
	}
	return nil
}
