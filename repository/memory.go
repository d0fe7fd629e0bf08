package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quisine/models"
)

// memoryDB keeps every collection of the in-memory driver behind one lock. Records are
// copied on the way in and out so callers never share state with the store.
type memoryDB struct {
	mu       sync.RWMutex
	shops    map[string]*models.Shop
	menus    map[string]*models.Menu
	orders   []*models.Order
	expenses []*models.Expense
}

// NewMemoryStore returns a Store backed by process memory. It has no transactions.
func NewMemoryStore() *Store {
	db := &memoryDB{
		shops: map[string]*models.Shop{},
		menus: map[string]*models.Menu{},
	}
	return &Store{
		Shops:    &memoryShops{db},
		Menus:    &memoryMenus{db},
		Orders:   &memoryOrders{db},
		Expenses: &memoryExpenses{db},
		Tx:       noTx{},
	}
}

// clone deep copies v through its bson encoding, the same trip a record takes through MongoDB.
func clone[T any](v *T) *T {
	raw, err := bson.Marshal(v)
	if err != nil {
		panic(err)
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	return &out
}

type noTx struct{}

func (noTx) Supported() bool { return false }

func (noTx) WithTransaction(context.Context, func(context.Context) error) error {
	return errors.New("transactions are not supported by the memory store")
}

// shops

type memoryShops struct{ db *memoryDB }

func (r *memoryShops) Create(_ context.Context, shop *models.Shop) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.shops[shop.UserID]; ok {
		return ErrDuplicateKey
	}
	for _, s := range r.db.shops {
		if s.Email == shop.Email {
			return ErrDuplicateKey
		}
	}
	if shop.ID.IsZero() {
		shop.ID = primitive.NewObjectID()
	}
	if shop.Staff == nil {
		shop.Staff = []models.Staff{}
	}
	r.db.shops[shop.UserID] = clone(shop)
	return nil
}

func (r *memoryShops) DeleteByTenant(_ context.Context, tenantID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.shops, tenantID)
	return nil
}

func (r *memoryShops) FindByTenant(_ context.Context, tenantID string) (*models.Shop, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	shop, ok := r.db.shops[tenantID]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(shop), nil
}

func (r *memoryShops) FindByEmail(_ context.Context, email string) (*models.Shop, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, shop := range r.db.shops {
		if shop.Email == email {
			return clone(shop), nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryShops) UpdateProfile(_ context.Context, tenantID string, u models.ShopProfileUpdate) (*models.Shop, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	shop, ok := r.db.shops[tenantID]
	if !ok {
		return nil, ErrNotFound
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&shop.ShopName, u.ShopName)
	set(&shop.Address, u.Address)
	set(&shop.ContactPhone, u.ContactPhone)
	set(&shop.PrimaryColor, u.PrimaryColor)
	set(&shop.SecondaryColor, u.SecondaryColor)
	set(&shop.Logo, u.Logo)
	set(&shop.Cover, u.Cover)
	shop.UpdatedAt = time.Now()
	return clone(shop), nil
}

func (r *memoryShops) AddStaff(_ context.Context, tenantID string, staff models.Staff) ([]models.Staff, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	shop, ok := r.db.shops[tenantID]
	if !ok {
		return nil, ErrNotFound
	}
	for _, s := range shop.Staff {
		if s.Pin == staff.Pin {
			return nil, ErrDuplicateKey
		}
	}
	shop.Staff = append(shop.Staff, staff)
	shop.UpdatedAt = staff.CreatedAt
	return clone(shop).Staff, nil
}

func (r *memoryShops) RemoveStaff(_ context.Context, tenantID string, staffID primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	shop, ok := r.db.shops[tenantID]
	if !ok {
		return nil
	}
	kept := shop.Staff[:0]
	for _, s := range shop.Staff {
		if s.ID != staffID {
			kept = append(kept, s)
		}
	}
	shop.Staff = kept
	return nil
}

// menus

type memoryMenus struct{ db *memoryDB }

func (r *memoryMenus) Create(_ context.Context, menu *models.Menu) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.menus[menu.UserID]; ok {
		return ErrDuplicateKey
	}
	if menu.ID.IsZero() {
		menu.ID = primitive.NewObjectID()
	}
	if menu.Categories == nil {
		menu.Categories = []models.Category{}
	}
	r.db.menus[menu.UserID] = clone(menu)
	return nil
}

func (r *memoryMenus) DeleteByTenant(_ context.Context, tenantID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.menus, tenantID)
	return nil
}

func (r *memoryMenus) FindByTenant(_ context.Context, tenantID string) (*models.Menu, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	menu, ok := r.db.menus[tenantID]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(menu), nil
}

func (r *memoryMenus) GetOrCreate(_ context.Context, tenantID string) (*models.Menu, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	menu, ok := r.db.menus[tenantID]
	if !ok {
		menu = &models.Menu{ID: primitive.NewObjectID(), UserID: tenantID, Categories: []models.Category{}}
		r.db.menus[tenantID] = menu
	}
	return clone(menu), nil
}

func (r *memoryMenus) AddCategory(_ context.Context, tenantID string, cat models.Category) (*models.Menu, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	menu, ok := r.db.menus[tenantID]
	if !ok {
		return nil, ErrNotFound
	}
	menu.Categories = append(menu.Categories, *clone(&cat))
	return clone(menu), nil
}

func (r *memoryMenus) DeleteCategory(_ context.Context, tenantID string, categoryID primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	menu, ok := r.db.menus[tenantID]
	if !ok {
		return nil
	}
	kept := menu.Categories[:0]
	for _, c := range menu.Categories {
		if c.ID != categoryID {
			kept = append(kept, c)
		}
	}
	menu.Categories = kept
	return nil
}

// category returns the live category element, mirroring the positional "$" operator.
func (r *memoryMenus) category(tenantID string, categoryID primitive.ObjectID) *models.Category {
	menu, ok := r.db.menus[tenantID]
	if !ok {
		return nil
	}
	for i := range menu.Categories {
		if menu.Categories[i].ID == categoryID {
			return &menu.Categories[i]
		}
	}
	return nil
}

// item resolves the category/item pair the way the array filters do: the item must live in
// that exact category.
func (r *memoryMenus) item(tenantID string, categoryID, itemID primitive.ObjectID) *models.Item {
	menu, ok := r.db.menus[tenantID]
	if !ok {
		return nil
	}
	item, _ := menu.FindItem(categoryID, itemID)
	return item
}

func (r *memoryMenus) AddItem(_ context.Context, tenantID string, categoryID primitive.ObjectID, item models.Item) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cat := r.category(tenantID, categoryID)
	if cat == nil {
		return ErrNotFound
	}
	cat.Items = append(cat.Items, *clone(&item))
	return nil
}

func (r *memoryMenus) FindItem(_ context.Context, tenantID string, categoryID, itemID primitive.ObjectID) (*models.Item, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	item := r.item(tenantID, categoryID, itemID)
	if item == nil {
		return nil, ErrNotFound
	}
	return clone(item), nil
}

func (r *memoryMenus) UpdateItem(_ context.Context, tenantID string, categoryID, itemID primitive.ObjectID, u models.ItemUpdate) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	item := r.item(tenantID, categoryID, itemID)
	if item == nil {
		return ErrNotFound
	}
	item.Name = u.Name
	item.BasePrice = u.BasePrice
	item.Description = u.Description
	item.Time = u.Time
	if u.Img != nil {
		item.Img = *u.Img
	}
	if u.Modifiers != nil {
		item.Modifiers = append([]models.Modifier(nil), u.Modifiers...)
	}
	return nil
}

func (r *memoryMenus) DeleteItem(_ context.Context, tenantID string, categoryID, itemID primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cat := r.category(tenantID, categoryID)
	if cat == nil {
		return nil
	}
	kept := cat.Items[:0]
	for _, it := range cat.Items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	cat.Items = kept
	return nil
}

func (r *memoryMenus) SetItemAvailability(_ context.Context, tenantID string, categoryID, itemID primitive.ObjectID, available bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	item := r.item(tenantID, categoryID, itemID)
	if item == nil {
		return ErrNotFound
	}
	item.Available = available
	return nil
}

// orders

type memoryOrders struct{ db *memoryDB }

func (r *memoryOrders) Create(_ context.Context, order *models.Order) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	r.db.orders = append(r.db.orders, clone(order))
	return nil
}

func (r *memoryOrders) find(id primitive.ObjectID) *models.Order {
	for _, o := range r.db.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (r *memoryOrders) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	o := r.find(id)
	if o == nil {
		return nil, ErrNotFound
	}
	return clone(o), nil
}

func (r *memoryOrders) ListByTenant(_ context.Context, tenantID string) ([]models.Order, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	orders := []models.Order{}
	for _, o := range r.db.orders {
		if o.UserID == tenantID {
			orders = append(orders, *clone(o))
		}
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (r *memoryOrders) CompareAndSetStatus(_ context.Context, tenantID string, id primitive.ObjectID, from, to models.OrderStatus, at time.Time) (*models.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o := r.find(id)
	if o == nil || o.UserID != tenantID || o.Status != from {
		return nil, ErrNotFound
	}
	o.Status = to
	o.UpdatedAt = at
	return clone(o), nil
}

func (r *memoryOrders) Delete(_ context.Context, tenantID string, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, o := range r.db.orders {
		if o.ID == id && o.UserID == tenantID {
			r.db.orders = append(r.db.orders[:i], r.db.orders[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memoryOrders) CountByStatus(context.Context) (map[models.OrderStatus]int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	counts := map[models.OrderStatus]int64{}
	for _, o := range r.db.orders {
		counts[o.Status]++
	}
	return counts, nil
}

// billable returns the tenant's non-cancelled orders. Callers hold the read lock.
func (r *memoryOrders) billable(tenantID string) []*models.Order {
	var out []*models.Order
	for _, o := range r.db.orders {
		if o.UserID == tenantID && o.Status != models.StatusCancelled {
			out = append(out, o)
		}
	}
	return out
}

func (r *memoryOrders) RevenueSummary(_ context.Context, tenantID string) (float64, int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var revenue float64
	var count int64
	for _, o := range r.billable(tenantID) {
		revenue += o.Total
		count++
	}
	return revenue, count, nil
}

func (r *memoryOrders) DailyRevenue(_ context.Context, tenantID string, since time.Time, loc *time.Location) ([]models.DailyRevenue, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	byDay := map[string]float64{}
	for _, o := range r.billable(tenantID) {
		if o.CreatedAt.Before(since) {
			continue
		}
		byDay[o.CreatedAt.In(loc).Format("2006-01-02")] += o.Total
	}
	days := make([]models.DailyRevenue, 0, len(byDay))
	for day, revenue := range byDay {
		days = append(days, models.DailyRevenue{Day: day, Revenue: revenue})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Day < days[j].Day })
	return days, nil
}

func (r *memoryOrders) TopItems(_ context.Context, tenantID string, limit int) ([]models.TopItem, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	byName := map[string]*models.TopItem{}
	for _, o := range r.billable(tenantID) {
		for _, li := range o.Items {
			t, ok := byName[li.Name]
			if !ok {
				t = &models.TopItem{Name: li.Name}
				byName[li.Name] = t
			}
			t.Count += int64(li.Qty)
			t.Sales += float64(li.Qty) * li.Price
		}
	}
	items := make([]models.TopItem, 0, len(byName))
	for _, t := range byName {
		items = append(items, *t)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Name < items[j].Name
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// expenses

type memoryExpenses struct{ db *memoryDB }

func (r *memoryExpenses) Create(_ context.Context, e *models.Expense) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	r.db.expenses = append(r.db.expenses, clone(e))
	return nil
}

func (r *memoryExpenses) ListRecent(_ context.Context, tenantID string, limit int64) ([]models.Expense, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []models.Expense{}
	for _, e := range r.db.expenses {
		if e.UserID == tenantID {
			out = append(out, *clone(e))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryExpenses) Total(_ context.Context, tenantID string) (float64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var total float64
	for _, e := range r.db.expenses {
		if e.UserID == tenantID {
			total += e.Amount
		}
	}
	return total, nil
}

func (r *memoryExpenses) ByCategory(_ context.Context, tenantID string) ([]models.ExpenseSlice, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	sums := map[models.ExpenseCategory]float64{}
	var order []models.ExpenseCategory
	for _, e := range r.db.expenses {
		if e.UserID != tenantID {
			continue
		}
		if _, ok := sums[e.Category]; !ok {
			order = append(order, e.Category)
		}
		sums[e.Category] += e.Amount
	}
	slices := make([]models.ExpenseSlice, 0, len(order))
	for _, c := range order {
		slices = append(slices, models.ExpenseSlice{Category: c, Value: sums[c]})
	}
	return slices, nil
}
