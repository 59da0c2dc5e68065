package memstore_test

import (
	"testing"
	"time"

	"github.com/bluescreen10/tokensession/memstore"
)

func TestSetGet(t *testing.T) {
	key := "session:token"
	expectedData := []byte(`"h.p.s"`)

	s := memstore.New()
	s.Set(key, expectedData, time.Now().Add(1*time.Hour))
	data, found, err := s.Get(key)

	if err != nil {
		t.Fatal(err)
	}

	if string(data) != string(expectedData) {
		t.Fatalf("expected '%s' got '%s'", expectedData, data)
	}

	if !found {
		t.Fatalf("expected 'true' got '%v'", found)
	}
}

func TestSetWithoutExpiry(t *testing.T) {
	key := "config:siteName"

	s := memstore.New()
	s.Set(key, []byte(`"X"`), time.Time{})
	_, found, err := s.Get(key)

	if err != nil {
		t.Fatal(err)
	}

	if !found {
		t.Fatalf("expected 'true' got '%v'", found)
	}
}

func TestSetCopiesData(t *testing.T) {
	key := "abc123"
	data := []byte("hello")

	s := memstore.New()
	s.Set(key, data, time.Time{})
	data[0] = 'j'

	got, _, _ := s.Get(key)
	if string(got) != "hello" {
		t.Fatalf("expected 'hello' got '%s'", got)
	}
}

func TestEmptyGet(t *testing.T) {
	key := "abc123"

	s := memstore.New()
	_, found, err := s.Get(key)

	if err != nil {
		t.Fatal(err)
	}

	if found {
		t.Fatalf("expected 'false' got '%v'", found)
	}
}

func TestGetExpired(t *testing.T) {
	key := "abc123"
	expectedData := []byte("hello world")

	s := memstore.New()
	s.Set(key, expectedData, time.Now().Add(-1*time.Hour))
	_, found, err := s.Get(key)

	if err != nil {
		t.Fatal(err)
	}

	if found {
		t.Fatalf("expected 'false' got '%v'", found)
	}
}

func TestDelete(t *testing.T) {
	key := "abc123"

	s := memstore.New()
	s.Set(key, []byte("hello world"), time.Time{})
	if err := s.Delete(key); err != nil {
		t.Fatal(err)
	}

	if _, found, _ := s.Get(key); found {
		t.Fatalf("expected 'false' got '%v'", found)
	}

	if err := s.Delete("missing"); err != nil {
		t.Fatal(err)
	}
}

func TestPeriodicCleanup(t *testing.T) {
	key1 := "abc123"
	key2 := "abc1234"
	key3 := "abc12345"
	expectedData := []byte("hello world")

	s := memstore.New()
	s.Set(key1, expectedData, time.Now().Add(1*time.Hour))
	s.Set(key2, expectedData, time.Now().Add(10*time.Millisecond))
	s.Set(key3, expectedData, time.Time{})

	stop := make(chan struct{})
	go s.PeriodicCleanUp(20*time.Millisecond, stop)
	time.Sleep(50 * time.Millisecond)
	stop <- struct{}{}
	if count := s.Count(); count != 2 {
		t.Fatalf("expected 2 items but got '%d'", count)
	}
}
