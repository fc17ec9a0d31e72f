package wishlist

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"

	"rumal.store/web/internal/auth"
	"rumal.store/web/internal/events"
	"rumal.store/web/internal/gateway"
	"rumal.store/web/internal/mailer"
	"rumal.store/web/internal/modules/cart"
	"rumal.store/web/internal/query"
	"rumal.store/web/internal/shared/apperr"
)

var ErrNeedsOptions = apperr.InvalidErr("Choose product options before adding this item to your cart.", nil)

// Key is the cache prefix of everything wishlist-related for a user.
func Key(subject string) query.Key { return query.Scoped(subject, "wishlist") }

func mutation(subject string) query.Mutation {
	return query.Mutation{
		Invalidates: []query.Key{Key(subject)},
		Notify:      []string{events.WishlistUpdated},
	}
}

type Service struct {
	gw     *gateway.Client
	cache  *query.Cache
	mail   mailer.Service
	from   string
	public string
}

type Config struct {
	MailFrom  string
	PublicURL string
}

func NewService(gw *gateway.Client, cache *query.Cache, mail mailer.Service, cfg Config) *Service {
	return &Service{gw: gw, cache: cache, mail: mail, from: cfg.MailFrom, public: strings.TrimRight(cfg.PublicURL, "/")}
}

func (s *Service) Get(ctx context.Context, id *auth.Identity) ([]Item, error) {
	return query.Get(ctx, s.cache, Key(id.Subject()).With("items"), func(ctx context.Context) ([]Item, error) {
		var page gateway.Page[Item]
		err := s.gw.Get(ctx, "/wishlist/me", nil, id.AccessToken, &page)
		return page.Content, err
	})
}

func (s *Service) Count(ctx context.Context, id *auth.Identity) (int, error) {
	items, err := s.Get(ctx, id)
	return len(items), err
}

func (s *Service) AddItem(ctx context.Context, id *auth.Identity, productID, collectionID string) error {
	body := map[string]any{"productId": productID}
	if collectionID != "" {
		body["collectionId"] = collectionID
	}
	return s.cache.Mutate(ctx, id.Subject(), mutation(id.Subject()), func(ctx context.Context) error {
		return s.gw.Post(ctx, "/wishlist/me/items", body, id.AccessToken, nil)
	})
}

func (s *Service) RemoveItem(ctx context.Context, id *auth.Identity, itemID string) error {
	return s.cache.Mutate(ctx, id.Subject(), mutation(id.Subject()), func(ctx context.Context) error {
		return s.gw.Delete(ctx, "/wishlist/me/items/"+url.PathEscape(itemID), id.AccessToken)
	})
}

func (s *Service) Clear(ctx context.Context, id *auth.Identity) error {
	return s.cache.Mutate(ctx, id.Subject(), mutation(id.Subject()), func(ctx context.Context) error {
		return s.gw.Delete(ctx, "/wishlist/me", id.AccessToken)
	})
}

// MoveToCart adds the item to the cart and removes it from the wishlist.
// Parent products are refused without calling the gateway.
func (s *Service) MoveToCart(ctx context.Context, id *auth.Identity, itemID string) error {
	items, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	var item *Item
	for i := range items {
		if items[i].ID == itemID {
			item = &items[i]
			break
		}
	}
	if item == nil {
		return apperr.NotFoundErr("This item is no longer in your wishlist.")
	}
	if item.NeedsOptions() {
		return ErrNeedsOptions
	}

	// Two writes, two mutations: a cart add that lands stays visible even
	// when the wishlist removal fails afterwards.
	err = s.cache.Mutate(ctx, id.Subject(), cart.Mutation(id.Subject()), func(ctx context.Context) error {
		return s.gw.Post(ctx, "/cart/me/items", map[string]any{"productId": item.ProductID, "quantity": 1}, id.AccessToken, nil)
	})
	if err != nil {
		return err
	}
	return s.cache.Mutate(ctx, id.Subject(), mutation(id.Subject()), func(ctx context.Context) error {
		return s.gw.Delete(ctx, "/wishlist/me/items/"+url.PathEscape(item.ID), id.AccessToken)
	})
}

func (s *Service) ListCollections(ctx context.Context, id *auth.Identity) ([]Collection, error) {
	return query.Get(ctx, s.cache, Key(id.Subject()).With("collections"), func(ctx context.Context) ([]Collection, error) {
		var page gateway.Page[Collection]
		err := s.gw.Get(ctx, "/wishlist/me/collections", nil, id.AccessToken, &page)
		return page.Content, err
	})
}

func (s *Service) GetCollection(ctx context.Context, id *auth.Identity, collectionID string) (Collection, error) {
	return query.Get(ctx, s.cache, Key(id.Subject()).With("collections", collectionID), func(ctx context.Context) (Collection, error) {
		var c Collection
		err := s.gw.Get(ctx, "/wishlist/me/collections/"+url.PathEscape(collectionID), nil, id.AccessToken, &c)
		return c, err
	})
}

type CollectionInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Public      bool   `json:"isPublic"`
}

func (s *Service) CreateCollection(ctx context.Context, id *auth.Identity, in CollectionInput) (Collection, error) {
	var out Collection
	err := s.cache.Mutate(ctx, id.Subject(), mutation(id.Subject()), func(ctx context.Context) error {
		return s.gw.Post(ctx, "/wishlist/me/collections", in, id.AccessToken, &out)
	})
	return out, err
}

func (s *Service) UpdateCollection(ctx context.Context, id *auth.Identity, collectionID string, in CollectionInput) error {
	return s.cache.Mutate(ctx, id.Subject(), mutation(id.Subject()), func(ctx context.Context) error {
		return s.gw.Put(ctx, "/wishlist/me/collections/"+url.PathEscape(collectionID), in, id.AccessToken, nil)
	})
}

func (s *Service) DeleteCollection(ctx context.Context, id *auth.Identity, collectionID string) error {
	return s.cache.Mutate(ctx, id.Subject(), mutation(id.Subject()), func(ctx context.Context) error {
		return s.gw.Delete(ctx, "/wishlist/me/collections/"+url.PathEscape(collectionID), id.AccessToken)
	})
}

// ShareCollection makes the collection reachable by link and returns its token.
func (s *Service) ShareCollection(ctx context.Context, id *auth.Identity, collectionID string) (string, error) {
	var out struct {
		ShareToken string `json:"shareToken"`
	}
	err := s.cache.Mutate(ctx, id.Subject(), mutation(id.Subject()), func(ctx context.Context) error {
		return s.gw.Post(ctx, "/wishlist/me/collections/"+url.PathEscape(collectionID)+"/share", nil, id.AccessToken, &out)
	})
	return out.ShareToken, err
}

func (s *Service) RevokeShare(ctx context.Context, id *auth.Identity, collectionID string) error {
	return s.cache.Mutate(ctx, id.Subject(), mutation(id.Subject()), func(ctx context.Context) error {
		return s.gw.Delete(ctx, "/wishlist/me/collections/"+url.PathEscape(collectionID)+"/share", id.AccessToken)
	})
}

// ShareURL is the public link of a shared collection.
func (s *Service) ShareURL(token string) string {
	return s.public + "/wishlist/shared/" + url.PathEscape(token)
}

// GetShared loads a shared collection by token. An unknown or revoked token
// is not an error: the view simply reports Available false. Other failures
// also yield an unavailable view, with the error for logging.
func (s *Service) GetShared(ctx context.Context, token string) (SharedView, error) {
	if strings.TrimSpace(token) == "" {
		return SharedView{}, nil
	}
	var p sharedPayload
	err := s.gw.Get(ctx, "/wishlist/shared/"+url.PathEscape(token), nil, "", &p)
	if gateway.IsNotFound(err) {
		return SharedView{}, nil
	}
	if err != nil {
		return SharedView{}, err
	}
	c := p.Collection
	if c.Name == "" {
		c.Name = p.Name
	}
	if len(c.Items) == 0 {
		c.Items = p.Items
	}
	return SharedView{Available: true, OwnerName: p.OwnerName, Collection: c}, nil
}

// EmailShareLink shares the collection (if needed) and mails its link.
func (s *Service) EmailShareLink(ctx context.Context, id *auth.Identity, collectionID, to string) error {
	to = strings.TrimSpace(to)
	if to == "" || !strings.Contains(to, "@") {
		return apperr.InvalidErr("Enter a valid email address.", map[string]string{"email": "Enter a valid email address."})
	}
	c, err := s.GetCollection(ctx, id, collectionID)
	if err != nil {
		return err
	}
	token := c.ShareToken
	if token == "" {
		if token, err = s.ShareCollection(ctx, id, collectionID); err != nil {
			return err
		}
	}

	sender := id.Claims.Name
	if sender == "" {
		sender = "A friend"
	}
	link := s.ShareURL(token)
	return s.mail.Send(ctx, mailer.Email{
		From:     s.from,
		FromName: "Rumal Store",
		To:       []string{to},
		Subject:  fmt.Sprintf("%s shared a wishlist with you", sender),
		TextBody: fmt.Sprintf("%s shared the wishlist %q with you.\n\n%s\n", sender, c.Name, link),
		HTMLBody: fmt.Sprintf(`<p>%s shared the wishlist <strong>%s</strong> with you.</p><p><a href="%s">View wishlist</a></p>`,
			html.EscapeString(sender), html.EscapeString(c.Name), html.EscapeString(link)),
	})
}
