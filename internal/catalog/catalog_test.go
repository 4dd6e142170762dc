package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	pkgerrors "github.com/angelmondragon/brewcart/pkg/errors"
)

func TestMenuLookups(t *testing.T) {
	menu := NewMenu(
		[]SizeOption{{ID: "M", Name: "Medium", ExtraPrice: 5000}, {ID: "L", Name: "Large", ExtraPrice: 10000}},
		[]Topping{{ID: "pearl", Name: "Pearl", UnitPrice: 5000}},
	)

	if size, ok := menu.Size("L"); !ok || size.ExtraPrice != 10000 {
		t.Fatalf("unexpected size lookup %+v ok=%v", size, ok)
	}
	if _, ok := menu.Size("XL"); ok {
		t.Fatal("expected unknown size to be missing")
	}
	if topping, ok := menu.Topping("pearl"); !ok || topping.UnitPrice != 5000 {
		t.Fatalf("unexpected topping lookup %+v ok=%v", topping, ok)
	}
	if got := menu.Sizes(); len(got) != 2 || got[0].ID != "M" {
		t.Fatalf("expected catalog order preserved, got %+v", got)
	}
}

func TestNilMenuIsEmpty(t *testing.T) {
	var menu *Menu
	if _, ok := menu.Size("M"); ok {
		t.Fatal("nil menu should not resolve sizes")
	}
	if _, ok := menu.Topping("pearl"); ok {
		t.Fatal("nil menu should not resolve toppings")
	}
	if menu.Sizes() != nil || menu.Toppings() != nil {
		t.Fatal("nil menu should list nothing")
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "menu.json")
	doc := `{"sizes":[{"id":"M","name":"Medium","extraPrice":5000}],"toppings":[{"id":"jelly","name":"Jelly","unitPrice":7000}]}`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write menu: %v", err)
	}

	source, err := NewFileSource(path)
	if err != nil {
		t.Fatalf("new file source: %v", err)
	}
	menu, err := source.Menu(context.Background())
	if err != nil {
		t.Fatalf("menu: %v", err)
	}
	if topping, ok := menu.Topping("jelly"); !ok || topping.UnitPrice != 7000 {
		t.Fatalf("unexpected topping %+v", topping)
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	source, _ := NewFileSource(filepath.Join(t.TempDir(), "absent.json"))
	if _, err := source.Menu(context.Background()); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestParseMenuRejectsInvalidDocuments(t *testing.T) {
	cases := map[string]string{
		"malformed":      `{"sizes":`,
		"missing id":     `{"sizes":[{"name":"Medium","extraPrice":5000}]}`,
		"negative price": `{"toppings":[{"id":"x","unitPrice":-1}]}`,
	}
	for name, doc := range cases {
		if _, err := ParseMenu([]byte(doc)); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

type stubFetcher struct {
	bodies map[string]func(out any)
	err    error
	paths  []string
}

func (s *stubFetcher) Get(ctx context.Context, path, token string, out any) error {
	s.paths = append(s.paths, path)
	if s.err != nil {
		return s.err
	}
	if fill, ok := s.bodies[path]; ok {
		fill(out)
	}
	return nil
}

func TestRemoteSourceMapsShopShapes(t *testing.T) {
	fetcher := &stubFetcher{bodies: map[string]func(out any){
		"/Size": func(out any) {
			*(out.(*[]remoteSize)) = []remoteSize{{ID: "L", Name: "Large", ExtraPrice: 10000}, {Name: "no id"}}
		},
		"/Topping": func(out any) {
			*(out.(*[]remoteTopping)) = []remoteTopping{{ID: "pearl", Name: "Pearl", Price: 5000}}
		},
	}}

	menu, err := NewRemoteSource(fetcher).Menu(context.Background())
	if err != nil {
		t.Fatalf("menu: %v", err)
	}
	if len(menu.Sizes()) != 1 {
		t.Fatalf("expected entries without id to be dropped, got %+v", menu.Sizes())
	}
	if topping, ok := menu.Topping("pearl"); !ok || topping.UnitPrice != 5000 {
		t.Fatalf("unexpected topping %+v", topping)
	}
	if len(fetcher.paths) != 2 || fetcher.paths[0] != "/Size" || fetcher.paths[1] != "/Topping" {
		t.Fatalf("unexpected fetch order %v", fetcher.paths)
	}
}

func TestRemoteSourcePropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	if _, err := NewRemoteSource(&stubFetcher{err: boom}).Menu(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected fetch error, got %v", err)
	}
}

func TestStaticSource(t *testing.T) {
	menu, err := NewStatic(nil).Menu(context.Background())
	if err != nil || menu == nil {
		t.Fatalf("expected empty menu, got %v err=%v", menu, err)
	}
}

type countingSource struct {
	calls int
	err   error
}

func (s *countingSource) Menu(ctx context.Context) (*Menu, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return NewMenu([]SizeOption{{ID: "M", Name: "Medium", ExtraPrice: 5000}}, nil), nil
}

func TestCachedSource(t *testing.T) {
	src := &countingSource{}
	cached := NewCached(src, time.Minute)
	now := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)
	cached.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if _, err := cached.Menu(context.Background()); err != nil {
			t.Fatalf("menu: %v", err)
		}
	}
	if src.calls != 1 {
		t.Fatalf("expected one fetch within ttl, got %d", src.calls)
	}

	now = now.Add(2 * time.Minute)
	src.err = errors.New("catalog down")
	menu, err := cached.Menu(context.Background())
	if err != nil || menu == nil {
		t.Fatalf("expected stale menu on refresh failure, got %v err=%v", menu, err)
	}
	if src.calls != 2 {
		t.Fatalf("expected a refresh attempt after ttl, got %d", src.calls)
	}

	empty := NewCached(&countingSource{err: errors.New("catalog down")}, time.Minute)
	if _, err := empty.Menu(context.Background()); err == nil {
		t.Fatal("expected error with nothing cached")
	}
}
