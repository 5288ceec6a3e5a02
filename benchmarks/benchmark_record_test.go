package benchmarks_test

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/reoring/pathstore/field"
	"github.com/reoring/pathstore/record"
	"github.com/reoring/pathstore/store"
)

// ---- Helpers ----

func orderSchema(tb testing.TB) *field.Model {
	tb.Helper()
	m, err := field.Record().
		Field("id", field.Scalar()).Required().
		Field("status", field.Scalar()).Default("new").
		Field("tags", field.Set().EmptyDefault()).
		Field("lines", field.Dict("sku", field.Record().
			Field("qty", field.Scalar()).Default(1).
			Field("price", field.Scalar()).
			MustBuild())).
		Build()
	if err != nil {
		tb.Fatalf("schema build failed: %v", err)
	}
	return m
}

func orderData(id string, lines int) map[string]any {
	ls := make(map[string]any, lines)
	for i := 0; i < lines; i++ {
		ls["sku"+strconv.Itoa(i)] = map[string]any{"qty": i, "price": float64(i) * 1.5}
	}
	return map[string]any{"id": id, "tags": []any{"a", "b"}, "lines": ls}
}

// ---- Benchmarks ----

func BenchmarkLoad(b *testing.B) {
	m := orderSchema(b)
	for _, n := range []int{1, 16, 256} {
		data := orderData("o1", n)
		b.Run(fmt.Sprintf("lines=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, _, err := m.Load(data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkUpdateAttr(b *testing.B) {
	w, err := record.FromData(orderSchema(b), orderData("o1", 256))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := w.UpdateAttr("lines.sku7.qty", i); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkUpdateMultipleAttrs(b *testing.B) {
	w, err := record.FromData(orderSchema(b), orderData("o1", 256))
	if err != nil {
		b.Fatal(err)
	}
	batch := map[string]any{}
	for i := 0; i < 32; i++ {
		batch["lines.sku"+strconv.Itoa(i)+".qty"] = i
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := w.UpdateMultipleAttrs(batch); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCollectionGetMultipleAttrs(b *testing.B) {
	ctx := context.Background()
	items := store.New(orderSchema(b), store.NewMemory())
	data := map[string]any{}
	paths := make([]string, 0, 64)
	for i := 0; i < 64; i++ {
		key := "o" + strconv.Itoa(i)
		data[key] = orderData(key, 8)
		paths = append(paths, key+".lines.sku3.price")
	}
	if _, err := items.LoadFromData(ctx, data); err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		got, err := items.GetMultipleAttrs(ctx, paths)
		if err != nil || len(got) != len(paths) {
			b.Fatalf("got %d values, err %v", len(got), err)
		}
	}
}
