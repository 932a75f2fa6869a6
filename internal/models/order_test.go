package models

import "testing"

func TestOrderFromMetadata(t *testing.T) {
	metadata := map[string]string{
		"customer_email":   "meta@example.com",
		"customer_name":    "Erik Svensson",
		"customer_phone":   "46701234567",
		"customer_address": "Storgatan 1",
		"items":            `[{"price":450,"caliber":"6.5x55"}]`,
	}

	order := OrderFromMetadata("pi_123", 45000, "sek", "receipt@example.com", metadata)

	if order.ID != "pi_123" {
		t.Errorf("ID = %q, want pi_123", order.ID)
	}
	if order.Customer.Email != "receipt@example.com" {
		t.Errorf("Email = %q, want the receipt email to win", order.Customer.Email)
	}
	if order.Customer.Name != "Erik Svensson" {
		t.Errorf("Name = %q", order.Customer.Name)
	}
	if order.Total != 450 {
		t.Errorf("Total = %v, want 450", order.Total)
	}
	if len(order.Items) != 1 || order.Items[0].Caliber != "6.5x55" {
		t.Errorf("Items = %+v, want one parsed item", order.Items)
	}
	if order.Status != "paid" {
		t.Errorf("Status = %q, want paid", order.Status)
	}
}

func TestOrderFromMetadata_Fallbacks(t *testing.T) {
	t.Run("metadata email when receipt email missing", func(t *testing.T) {
		order := OrderFromMetadata("pi_1", 100, "sek", "", map[string]string{
			"customer_email": "meta@example.com",
		})
		if order.Customer.Email != "meta@example.com" {
			t.Errorf("Email = %q, want metadata email", order.Customer.Email)
		}
	})

	t.Run("unknown name when absent", func(t *testing.T) {
		order := OrderFromMetadata("pi_1", 100, "sek", "a@b.com", map[string]string{})
		if order.Customer.Name != "Unknown" {
			t.Errorf("Name = %q, want Unknown", order.Customer.Name)
		}
	})

	t.Run("unparsable item list degrades to empty", func(t *testing.T) {
		order := OrderFromMetadata("pi_1", 100, "sek", "a@b.com", map[string]string{
			"items": "not json",
		})
		if len(order.Items) != 0 {
			t.Errorf("Items = %+v, want empty", order.Items)
		}
	})
}

func TestOrder_HasSpecialRequest(t *testing.T) {
	order := &Order{Items: []CartItem{{Price: 100}, {Price: 200, SpecialRequest: "left-handed"}}}
	if !order.HasSpecialRequest() {
		t.Error("expected special request to be detected")
	}

	plain := &Order{Items: []CartItem{{Price: 100}, {Price: 200, SpecialRequest: "  "}}}
	if plain.HasSpecialRequest() {
		t.Error("blank special requests should not count")
	}
}
