package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"biokeeper/internal/shared/models"
)

// Resource describes the routes of one entity collection.
type Resource struct {
	Path     string
	Singular string
	Plural   string
	// Scoped resources are read through /admin/{actor}.
	Scoped bool
	// GetPrefix is inserted before the id of a single-record read.
	GetPrefix string
	// OpenCreate resources are created without an actor in the path.
	OpenCreate bool
	// BareWrites resources are created and updated under /{actor} without
	// the admin segment. Deletes still go through /admin.
	BareWrites bool
}

var (
	DonorResource        = Resource{Path: "donors", Singular: "donor", Plural: "donors"}
	MaterialResource     = Resource{Path: "biological-materials", Singular: "biological material", Plural: "biological materials", BareWrites: true}
	ConditionResource    = Resource{Path: "storage-conditions", Singular: "storage condition", Plural: "storage conditions"}
	NotificationResource = Resource{Path: "notifications", Singular: "notification", Plural: "notifications"}
	EventLogResource     = Resource{Path: "event-logs", Singular: "event log", Plural: "event logs", Scoped: true}
	UserResource         = Resource{Path: "user", Singular: "user", Plural: "users", GetPrefix: "id/", OpenCreate: true}
)

func (r Resource) listPath(actor int64) string {
	if r.Scoped {
		return fmt.Sprintf("/api/%s/admin/%d", r.Path, actor)
	}
	return "/api/" + r.Path
}

func (r Resource) getPath(actor, id int64) string {
	if r.Scoped {
		return fmt.Sprintf("/api/%s/admin/%d/%d", r.Path, actor, id)
	}
	return fmt.Sprintf("/api/%s/%s%d", r.Path, r.GetPrefix, id)
}

func (r Resource) createPath(actor int64) string {
	switch {
	case r.OpenCreate:
		return "/api/" + r.Path + "/admin/add"
	case r.BareWrites:
		return fmt.Sprintf("/api/%s/%d/add", r.Path, actor)
	}
	return fmt.Sprintf("/api/%s/admin/%d/add", r.Path, actor)
}

func (r Resource) updatePath(actor, id int64) string {
	if r.BareWrites {
		return fmt.Sprintf("/api/%s/%d/%d", r.Path, actor, id)
	}
	return r.itemPath(actor, id)
}

func (r Resource) itemPath(actor, id int64) string {
	return fmt.Sprintf("/api/%s/admin/%d/%d", r.Path, actor, id)
}

// Collection reads records as T and writes them as P.
type Collection[T, P any] struct {
	c   *Client
	res Resource
}

func (col Collection[T, P]) Resource() Resource { return col.res }

func (col Collection[T, P]) List(ctx context.Context, actor int64) ([]T, error) {
	resp, err := col.c.send(ctx, http.MethodGet, col.res.listPath(actor), nil)
	if err != nil {
		if col.res.Scoped && StatusOf(err) == http.StatusForbidden {
			return nil, ErrForbidden
		}
		return nil, err
	}
	var items []T
	if err := decode(resp, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (col Collection[T, P]) Get(ctx context.Context, actor, id int64) (T, error) {
	var item T
	resp, err := col.c.send(ctx, http.MethodGet, col.res.getPath(actor, id), nil)
	if err != nil {
		if col.res.Scoped && StatusOf(err) == http.StatusForbidden {
			return item, ErrForbidden
		}
		return item, err
	}
	err = decode(resp, &item)
	return item, err
}

func (col Collection[T, P]) Create(ctx context.Context, actor int64, body P) error {
	_, err := col.c.send(ctx, http.MethodPost, col.res.createPath(actor), body)
	return err
}

func (col Collection[T, P]) Update(ctx context.Context, actor, id int64, body P) error {
	_, err := col.c.send(ctx, http.MethodPut, col.res.updatePath(actor, id), body)
	return err
}

func (col Collection[T, P]) Delete(ctx context.Context, actor, id int64) error {
	_, err := col.c.send(ctx, http.MethodDelete, col.res.itemPath(actor, id), nil)
	return err
}

func (c *Client) Donors() Collection[models.Donor, models.Donor] {
	return Collection[models.Donor, models.Donor]{c: c, res: DonorResource}
}

func (c *Client) Materials() Collection[models.BiologicalMaterial, models.MaterialPayload] {
	return Collection[models.BiologicalMaterial, models.MaterialPayload]{c: c, res: MaterialResource}
}

func (c *Client) Conditions() Collection[models.StorageCondition, models.ConditionPayload] {
	return Collection[models.StorageCondition, models.ConditionPayload]{c: c, res: ConditionResource}
}

func (c *Client) Notifications() Collection[models.Notification, models.NotificationPayload] {
	return Collection[models.Notification, models.NotificationPayload]{c: c, res: NotificationResource}
}

func (c *Client) EventLogs() Collection[models.EventLog, models.EventLogPayload] {
	return Collection[models.EventLog, models.EventLogPayload]{c: c, res: EventLogResource}
}

func (c *Client) Users() Collection[models.User, models.User] {
	return Collection[models.User, models.User]{c: c, res: UserResource}
}

// IsForbidden reports whether err denies access to a scoped listing.
func IsForbidden(err error) bool { return errors.Is(err, ErrForbidden) }
