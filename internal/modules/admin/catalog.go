package admin

import (
	"context"
	"net/url"
	"time"

	"rumal.store/web/internal/auth"
	"rumal.store/web/internal/gateway"
	"rumal.store/web/internal/modules/catalog"
	"rumal.store/web/internal/modules/reviews"
	"rumal.store/web/internal/query"
	"rumal.store/web/internal/shared/apperr"
)

func (s *Service) ListProducts(ctx context.Context, id *auth.Identity, f Filter) (gateway.Page[catalog.Product], error) {
	return list[catalog.Product](ctx, s, id, KeyProducts, "/admin/products", f)
}

// SetProductActive publishes or hides a product storefront-wide.
func (s *Service) SetProductActive(ctx context.Context, id *auth.Identity, productID string, active bool) error {
	return s.mutate(ctx, id, func(ctx context.Context) error {
		return s.gw.Patch(ctx, "/admin/products/"+url.PathEscape(productID)+"/status", map[string]bool{"active": active}, id.AccessToken, nil)
	}, KeyProducts, catalog.KeyProducts, query.K("vendor", "products"))
}

type ModeratedReview struct {
	reviews.Review
	ReportCount int        `json:"reportCount"`
	ModeratedAt *time.Time `json:"moderatedAt,omitempty"`
}

const (
	ModerationApprove = "approve"
	ModerationHide    = "hide"
	ModerationDelete  = "delete"
)

func (s *Service) ListReviews(ctx context.Context, id *auth.Identity, f Filter) (gateway.Page[ModeratedReview], error) {
	return list[ModeratedReview](ctx, s, id, KeyReviews, "/admin/reviews", f)
}

func (s *Service) ModerateReview(ctx context.Context, id *auth.Identity, reviewID, action string) error {
	path := "/admin/reviews/" + url.PathEscape(reviewID)
	var run func(context.Context) error
	switch action {
	case ModerationApprove, ModerationHide:
		run = func(ctx context.Context) error {
			return s.gw.Patch(ctx, path+"/moderate", map[string]string{"action": action}, id.AccessToken, nil)
		}
	case ModerationDelete:
		run = func(ctx context.Context) error { return s.gw.Delete(ctx, path, id.AccessToken) }
	default:
		return apperr.InvalidErr("Unknown moderation action.", nil)
	}
	return s.mutate(ctx, id, run, KeyReviews, reviews.KeyProduct, reviews.KeyVendor)
}
