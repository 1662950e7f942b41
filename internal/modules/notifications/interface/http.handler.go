package transport

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"logiflowEvents/internal/modules/notifications/application/usecase"
	"logiflowEvents/internal/modules/notifications/domain"
	"logiflowEvents/internal/shared/httputil"
)

// ListResponse wraps the notification query results.
type ListResponse struct {
	Items  []domain.Notification `json:"items"`
	Count  int                   `json:"count"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

var listErrors = httputil.NewErrorMapper().
	WithMapping(usecase.ErrInvalidCategory, http.StatusBadRequest, "invalid category").
	WithDefault(http.StatusInternalServerError, "unable to list notifications")

// NewListHandler exposes GET /api/notifications with exact event_type and
// routing_key filters, paginated, newest first.
func NewListHandler(listUC *usecase.ListUseCase) echo.HandlerFunc {
	return func(c echo.Context) error {
		query := queryFromRequest(c)
		items, err := listUC.List(c.Request().Context(), query)
		if err != nil {
			slog.Error("notifications list failed", slog.Any("error", err))
			info := listErrors.Map(err)
			return echo.NewHTTPError(info.Status, info.Message)
		}
		return c.JSON(http.StatusOK, newListResponse(items, query))
	}
}

// NewCategoryHandler exposes GET /api/notifications/category/:category,
// filtering by the routing-key prefix pattern "category.*".
func NewCategoryHandler(listUC *usecase.ListUseCase) echo.HandlerFunc {
	return func(c echo.Context) error {
		query := queryFromRequest(c)
		items, err := listUC.ListByCategory(c.Request().Context(), c.Param("category"), query)
		if err != nil {
			info := listErrors.Map(err)
			if info.Status >= http.StatusInternalServerError {
				slog.Error("notifications category list failed", slog.String("category", c.Param("category")), slog.Any("error", err))
			}
			return echo.NewHTTPError(info.Status, info.Message)
		}
		return c.JSON(http.StatusOK, newListResponse(items, query))
	}
}

func queryFromRequest(c echo.Context) domain.ListQuery {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	return domain.ListQuery{
		EventType:  c.QueryParam("event_type"),
		RoutingKey: c.QueryParam("routing_key"),
		Limit:      limit,
		Offset:     offset,
	}.Normalize()
}

func newListResponse(items []domain.Notification, query domain.ListQuery) ListResponse {
	if items == nil {
		items = []domain.Notification{}
	}
	return ListResponse{Items: items, Count: len(items), Limit: query.Limit, Offset: query.Offset}
}
