package items

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wishbox-app/wishbox-backend/pkg/db/models"
	pkgerrors "github.com/wishbox-app/wishbox-backend/pkg/errors"
)

// stubItemRepo mimics the conditional-write semantics of the real store:
// reserve succeeds only when the in-memory item is unreserved, release
// only when the token matches.
type stubItemRepo struct {
	items map[uuid.UUID]*models.Item
	err   error
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{items: map[uuid.UUID]*models.Item{}}
}

func (s *stubItemRepo) add(item *models.Item) *models.Item {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.items[item.ID] = item
	return item
}

func (s *stubItemRepo) ListByWishlist(_ context.Context, wishlistID uuid.UUID) ([]models.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Item
	for _, item := range s.items {
		if item.WishlistID == wishlistID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *stubItemRepo) Create(_ context.Context, item *models.Item) error {
	if s.err != nil {
		return s.err
	}
	s.add(item)
	return nil
}

func (s *stubItemRepo) FindInWishlist(_ context.Context, wishlistID, itemID uuid.UUID) (*models.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	item, ok := s.items[itemID]
	if !ok || item.WishlistID != wishlistID {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *item
	return &clone, nil
}

func (s *stubItemRepo) UpdateFields(_ context.Context, wishlistID, itemID uuid.UUID, name string, link, notes *string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	item, ok := s.items[itemID]
	if !ok || item.WishlistID != wishlistID {
		return 0, nil
	}
	item.Name = name
	item.Link = link
	item.Notes = notes
	return 1, nil
}

func (s *stubItemRepo) Delete(_ context.Context, wishlistID, itemID uuid.UUID) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	item, ok := s.items[itemID]
	if !ok || item.WishlistID != wishlistID {
		return 0, nil
	}
	delete(s.items, itemID)
	return 1, nil
}

func (s *stubItemRepo) ReserveIfAvailable(_ context.Context, wishlistID, itemID uuid.UUID, reservationToken string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	item, ok := s.items[itemID]
	if !ok || item.WishlistID != wishlistID || item.IsReserved {
		return 0, nil
	}
	item.IsReserved = true
	item.ReservedByToken = &reservationToken
	return 1, nil
}

func (s *stubItemRepo) ReleaseIfHeldBy(_ context.Context, wishlistID, itemID uuid.UUID, reservationToken string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	item, ok := s.items[itemID]
	if !ok || item.WishlistID != wishlistID || !item.IsReserved {
		return 0, nil
	}
	if item.ReservedByToken == nil || *item.ReservedByToken != reservationToken {
		return 0, nil
	}
	item.IsReserved = false
	item.ReservedByToken = nil
	return 1, nil
}

func (s *stubItemRepo) Release(_ context.Context, wishlistID, itemID uuid.UUID) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	item, ok := s.items[itemID]
	if !ok || item.WishlistID != wishlistID || !item.IsReserved {
		return 0, nil
	}
	item.IsReserved = false
	item.ReservedByToken = nil
	return 1, nil
}

type stubResolver struct {
	wishlist *models.Wishlist
	err      error
}

func (s stubResolver) FindByAdminToken(_ context.Context, adminToken string) (*models.Wishlist, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.wishlist == nil || s.wishlist.AdminToken != adminToken {
		return nil, gorm.ErrRecordNotFound
	}
	return s.wishlist, nil
}

func (s stubResolver) FindByGuestToken(_ context.Context, guestToken string) (*models.Wishlist, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.wishlist == nil || s.wishlist.GuestToken != guestToken {
		return nil, gorm.ErrRecordNotFound
	}
	return s.wishlist, nil
}

func testWishlist() *models.Wishlist {
	return &models.Wishlist{
		ID:         uuid.New(),
		AdminToken: uuid.NewString(),
		GuestToken: uuid.NewString(),
		Title:      "Wedding",
	}
}

func newTestService(t *testing.T, repo itemRepository, resolver wishlistResolver) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{ItemRepo: repo, WishlistRepo: resolver})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected code %s, got %v", code, err)
	}
}

func TestNewServiceRequiresDeps(t *testing.T) {
	if _, err := NewService(ServiceParams{WishlistRepo: stubResolver{}}); err == nil {
		t.Fatal("expected error without item repo")
	}
	if _, err := NewService(ServiceParams{ItemRepo: newStubItemRepo()}); err == nil {
		t.Fatal("expected error without wishlist repo")
	}
}

func TestServiceAddTrimsAndStores(t *testing.T) {
	wishlist := testWishlist()
	repo := newStubItemRepo()
	svc := newTestService(t, repo, stubResolver{wishlist: wishlist})

	dto, err := svc.Add(context.Background(), wishlist.AdminToken, ItemInput{
		Name:  "  Stand Mixer  ",
		Link:  " https://example.com/mixer ",
		Notes: "",
	})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if dto.Name != "Stand Mixer" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
	if dto.Link == nil || *dto.Link != "https://example.com/mixer" {
		t.Fatalf("expected trimmed link, got %v", dto.Link)
	}
	if dto.Notes != nil {
		t.Fatal("blank notes must collapse to null")
	}
	if dto.WishlistID != wishlist.ID {
		t.Fatalf("expected wishlist id %s got %s", wishlist.ID, dto.WishlistID)
	}
	if dto.IsReserved {
		t.Fatal("new items start unreserved")
	}
}

func TestServiceAddRequiresName(t *testing.T) {
	wishlist := testWishlist()
	svc := newTestService(t, newStubItemRepo(), stubResolver{wishlist: wishlist})

	_, err := svc.Add(context.Background(), wishlist.AdminToken, ItemInput{Name: "   "})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestServiceAddUnknownAdminToken(t *testing.T) {
	svc := newTestService(t, newStubItemRepo(), stubResolver{wishlist: testWishlist()})

	_, err := svc.Add(context.Background(), uuid.NewString(), ItemInput{Name: "Kettle"})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestServiceUpdateUnknownItem(t *testing.T) {
	wishlist := testWishlist()
	svc := newTestService(t, newStubItemRepo(), stubResolver{wishlist: wishlist})

	_, err := svc.Update(context.Background(), wishlist.AdminToken, uuid.New(), ItemInput{Name: "Kettle"})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceUpdateForeignItemLooksMissing(t *testing.T) {
	wishlist := testWishlist()
	other := testWishlist()
	repo := newStubItemRepo()
	foreign := repo.add(&models.Item{WishlistID: other.ID, Name: "Not Yours"})
	svc := newTestService(t, repo, stubResolver{wishlist: wishlist})

	_, err := svc.Update(context.Background(), wishlist.AdminToken, foreign.ID, ItemInput{Name: "Mine Now"})
	assertCode(t, err, pkgerrors.CodeNotFound)
	if repo.items[foreign.ID].Name != "Not Yours" {
		t.Fatal("foreign item must not be mutated")
	}
}

func TestServiceUpdatePreservesReservation(t *testing.T) {
	wishlist := testWishlist()
	repo := newStubItemRepo()
	holder := uuid.NewString()
	item := repo.add(&models.Item{
		WishlistID:      wishlist.ID,
		Name:            "Blender",
		IsReserved:      true,
		ReservedByToken: &holder,
	})
	svc := newTestService(t, repo, stubResolver{wishlist: wishlist})

	dto, err := svc.Update(context.Background(), wishlist.AdminToken, item.ID, ItemInput{Name: "Better Blender"})
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if !dto.IsReserved {
		t.Fatal("editing display fields must not clear the reservation")
	}
	if repo.items[item.ID].ReservedByToken == nil {
		t.Fatal("reservation holder must survive the edit")
	}
}

func TestServiceDeleteReservedItem(t *testing.T) {
	wishlist := testWishlist()
	repo := newStubItemRepo()
	holder := uuid.NewString()
	item := repo.add(&models.Item{
		WishlistID:      wishlist.ID,
		Name:            "Toaster",
		IsReserved:      true,
		ReservedByToken: &holder,
	})
	svc := newTestService(t, repo, stubResolver{wishlist: wishlist})

	if err := svc.Delete(context.Background(), wishlist.AdminToken, item.ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	if _, ok := repo.items[item.ID]; ok {
		t.Fatal("reserved items are still deletable by the owner")
	}
}

func TestServiceDeleteUnknownItem(t *testing.T) {
	wishlist := testWishlist()
	svc := newTestService(t, newStubItemRepo(), stubResolver{wishlist: wishlist})

	err := svc.Delete(context.Background(), wishlist.AdminToken, uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceReserveSuccess(t *testing.T) {
	wishlist := testWishlist()
	repo := newStubItemRepo()
	item := repo.add(&models.Item{WishlistID: wishlist.ID, Name: "Vase"})
	svc := newTestService(t, repo, stubResolver{wishlist: wishlist})

	reservationToken := uuid.NewString()
	dto, err := svc.Reserve(context.Background(), wishlist.GuestToken, item.ID, reservationToken)
	if err != nil {
		t.Fatalf("reserve item: %v", err)
	}
	if !dto.IsReserved {
		t.Fatal("expected item to be reserved")
	}
	if !dto.ReservedByMe {
		t.Fatal("reserving guest must see reserved_by_me")
	}
}

func TestServiceReserveAlreadyReserved(t *testing.T) {
	wishlist := testWishlist()
	repo := newStubItemRepo()
	holder := uuid.NewString()
	item := repo.add(&models.Item{
		WishlistID:      wishlist.ID,
		Name:            "Vase",
		IsReserved:      true,
		ReservedByToken: &holder,
	})
	svc := newTestService(t, repo, stubResolver{wishlist: wishlist})

	_, err := svc.Reserve(context.Background(), wishlist.GuestToken, item.ID, uuid.NewString())
	assertCode(t, err, pkgerrors.CodeConflict)
	if *repo.items[item.ID].ReservedByToken != holder {
		t.Fatal("losing reserve must not overwrite the holder")
	}
}

func TestServiceReserveUnknownItem(t *testing.T) {
	wishlist := testWishlist()
	svc := newTestService(t, newStubItemRepo(), stubResolver{wishlist: wishlist})

	_, err := svc.Reserve(context.Background(), wishlist.GuestToken, uuid.New(), uuid.NewString())
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceReserveForeignItemLooksMissing(t *testing.T) {
	wishlist := testWishlist()
	other := testWishlist()
	repo := newStubItemRepo()
	foreign := repo.add(&models.Item{WishlistID: other.ID, Name: "Not Yours"})
	svc := newTestService(t, repo, stubResolver{wishlist: wishlist})

	_, err := svc.Reserve(context.Background(), wishlist.GuestToken, foreign.ID, uuid.NewString())
	assertCode(t, err, pkgerrors.CodeNotFound)
	if repo.items[foreign.ID].IsReserved {
		t.Fatal("foreign item must not be reserved")
	}
}

func TestServiceReserveRequiresReservationToken(t *testing.T) {
	wishlist := testWishlist()
	repo := newStubItemRepo()
	item := repo.add(&models.Item{WishlistID: wishlist.ID, Name: "Vase"})
	svc := newTestService(t, repo, stubResolver{wishlist: wishlist})

	_, err := svc.Reserve(context.Background(), wishlist.GuestToken, item.ID, "  ")
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestServiceReserveUnknownGuestToken(t *testing.T) {
	svc := newTestService(t, newStubItemRepo(), stubResolver{wishlist: testWishlist()})

	_, err := svc.Reserve(context.Background(), uuid.NewString(), uuid.New(), uuid.NewString())
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestServiceCancelReservationSuccess(t *testing.T) {
	wishlist := testWishlist()
	repo := newStubItemRepo()
	holder := uuid.NewString()
	item := repo.add(&models.Item{
		WishlistID:      wishlist.ID,
		Name:            "Vase",
		IsReserved:      true,
		ReservedByToken: &holder,
	})
	svc := newTestService(t, repo, stubResolver{wishlist: wishlist})

	dto, err := svc.CancelReservation(context.Background(), wishlist.GuestToken, item.ID, holder)
	if err != nil {
		t.Fatalf("cancel reservation: %v", err)
	}
	if dto.IsReserved {
		t.Fatal("expected item released")
	}
	if repo.items[item.ID].ReservedByToken != nil {
		t.Fatal("holder token must be cleared on release")
	}
}

func TestServiceCancelReservationWrongHolder(t *testing.T) {
	wishlist := testWishlist()
	repo := newStubItemRepo()
	holder := uuid.NewString()
	item := repo.add(&models.Item{
		WishlistID:      wishlist.ID,
		Name:            "Vase",
		IsReserved:      true,
		ReservedByToken: &holder,
	})
	svc := newTestService(t, repo, stubResolver{wishlist: wishlist})

	_, err := svc.CancelReservation(context.Background(), wishlist.GuestToken, item.ID, uuid.NewString())
	assertCode(t, err, pkgerrors.CodeForbidden)
	if !repo.items[item.ID].IsReserved {
		t.Fatal("reservation must survive a stranger's cancel")
	}
}

func TestServiceCancelReservationNotReserved(t *testing.T) {
	wishlist := testWishlist()
	repo := newStubItemRepo()
	item := repo.add(&models.Item{WishlistID: wishlist.ID, Name: "Vase"})
	svc := newTestService(t, repo, stubResolver{wishlist: wishlist})

	_, err := svc.CancelReservation(context.Background(), wishlist.GuestToken, item.ID, uuid.NewString())
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestServiceCancelReservationUnknownItem(t *testing.T) {
	wishlist := testWishlist()
	svc := newTestService(t, newStubItemRepo(), stubResolver{wishlist: wishlist})

	_, err := svc.CancelReservation(context.Background(), wishlist.GuestToken, uuid.New(), uuid.NewString())
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceUnreserveSuccess(t *testing.T) {
	wishlist := testWishlist()
	repo := newStubItemRepo()
	holder := uuid.NewString()
	item := repo.add(&models.Item{
		WishlistID:      wishlist.ID,
		Name:            "Vase",
		IsReserved:      true,
		ReservedByToken: &holder,
	})
	svc := newTestService(t, repo, stubResolver{wishlist: wishlist})

	if err := svc.Unreserve(context.Background(), wishlist.AdminToken, item.ID); err != nil {
		t.Fatalf("unreserve item: %v", err)
	}
	if repo.items[item.ID].IsReserved {
		t.Fatal("expected admin override to release the item")
	}
}

func TestServiceUnreserveNotReserved(t *testing.T) {
	wishlist := testWishlist()
	repo := newStubItemRepo()
	item := repo.add(&models.Item{WishlistID: wishlist.ID, Name: "Vase"})
	svc := newTestService(t, repo, stubResolver{wishlist: wishlist})

	err := svc.Unreserve(context.Background(), wishlist.AdminToken, item.ID)
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestServiceUnreserveUnknownItem(t *testing.T) {
	wishlist := testWishlist()
	svc := newTestService(t, newStubItemRepo(), stubResolver{wishlist: wishlist})

	err := svc.Unreserve(context.Background(), wishlist.AdminToken, uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceListForGuestMarksOwnReservations(t *testing.T) {
	wishlist := testWishlist()
	repo := newStubItemRepo()
	mine := uuid.NewString()
	theirs := uuid.NewString()
	repo.add(&models.Item{WishlistID: wishlist.ID, Name: "Mine", IsReserved: true, ReservedByToken: &mine})
	repo.add(&models.Item{WishlistID: wishlist.ID, Name: "Theirs", IsReserved: true, ReservedByToken: &theirs})
	repo.add(&models.Item{WishlistID: wishlist.ID, Name: "Free"})
	svc := newTestService(t, repo, stubResolver{wishlist: wishlist})

	dtos, err := svc.ListForGuest(context.Background(), wishlist.GuestToken, mine)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(dtos) != 3 {
		t.Fatalf("expected 3 items, got %d", len(dtos))
	}
	for _, dto := range dtos {
		switch dto.Name {
		case "Mine":
			if !dto.ReservedByMe {
				t.Fatal("own reservation must be flagged")
			}
		case "Theirs":
			if dto.ReservedByMe {
				t.Fatal("another guest's reservation must not be flagged")
			}
			if !dto.IsReserved {
				t.Fatal("reservation state itself is public")
			}
		case "Free":
			if dto.IsReserved || dto.ReservedByMe {
				t.Fatal("free item must stay unflagged")
			}
		}
	}
}

func TestServiceDependencyErrorsSurfaceAsDependency(t *testing.T) {
	wishlist := testWishlist()
	repo := newStubItemRepo()
	repo.err = errors.New("connection reset")
	svc := newTestService(t, repo, stubResolver{wishlist: wishlist})

	_, err := svc.Add(context.Background(), wishlist.AdminToken, ItemInput{Name: "Vase"})
	assertCode(t, err, pkgerrors.CodeDependency)
}

// End-to-end walk of the reservation lifecycle against the stubs: add,
// reserve, losing second reserve, wrong-holder cancel, holder cancel,
// re-reserve by the second guest, admin unreserve.
func TestReservationLifecycle(t *testing.T) {
	wishlist := testWishlist()
	repo := newStubItemRepo()
	svc := newTestService(t, repo, stubResolver{wishlist: wishlist})
	ctx := context.Background()

	dto, err := svc.Add(ctx, wishlist.AdminToken, ItemInput{Name: "Record Player"})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	guestA := uuid.NewString()
	guestB := uuid.NewString()

	if _, err := svc.Reserve(ctx, wishlist.GuestToken, dto.ID, guestA); err != nil {
		t.Fatalf("first reserve: %v", err)
	}
	_, err = svc.Reserve(ctx, wishlist.GuestToken, dto.ID, guestB)
	assertCode(t, err, pkgerrors.CodeConflict)

	_, err = svc.CancelReservation(ctx, wishlist.GuestToken, dto.ID, guestB)
	assertCode(t, err, pkgerrors.CodeForbidden)

	if _, err := svc.CancelReservation(ctx, wishlist.GuestToken, dto.ID, guestA); err != nil {
		t.Fatalf("holder cancel: %v", err)
	}

	if _, err := svc.Reserve(ctx, wishlist.GuestToken, dto.ID, guestB); err != nil {
		t.Fatalf("re-reserve: %v", err)
	}

	if err := svc.Unreserve(ctx, wishlist.AdminToken, dto.ID); err != nil {
		t.Fatalf("admin unreserve: %v", err)
	}
	if repo.items[dto.ID].IsReserved {
		t.Fatal("item must end the lifecycle available")
	}
}
