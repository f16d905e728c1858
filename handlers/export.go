package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nafood/nafood-backend-go/models"
	"github.com/nafood/nafood-backend-go/repository"
)

// ExportCSV streams all orders as CSV for the admin panel. The leading BOM
// keeps Vietnamese text readable when the file lands in Excel.
func (h *OrderHandler) ExportCSV(c echo.Context) error {
	filter := repository.OrderFilter{}
	if status := c.QueryParam("status"); status != "" {
		s := models.OrderStatus(status)
		if !s.IsValid() {
			return errorJSON(c, http.StatusBadRequest, "Trạng thái không hợp lệ")
		}
		filter.Status = s
	}

	ctx, cancel := requestCtx(c.Request().Context())
	defer cancel()

	orders, err := h.orders.List(ctx, filter)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể xuất danh sách đơn hàng")
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="orders.csv"`)
	res.WriteHeader(http.StatusOK)

	if _, err := res.Write([]byte("\xEF\xBB\xBF")); err != nil {
		return err
	}

	w := csv.NewWriter(res)
	header := []string{"ID", "Khách hàng", "Điện thoại", "Địa chỉ", "Tổng tiền", "Trạng thái", "Thanh toán", "Ngày tạo"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, o := range orders {
		record := []string{
			strconv.FormatInt(o.ID, 10),
			o.CustomerName,
			o.CustomerPhone,
			o.CustomerAddress,
			fmt.Sprintf("%.0f", o.Total),
			string(o.Status),
			string(o.PaymentMethod),
			o.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
