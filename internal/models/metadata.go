package models

import (
	"encoding/json"
	"strconv"
)

// metadataValueLimit is the processor's per-value metadata size limit. A
// serialized item list longer than this is replaced by a reference so the
// create call is not rejected upstream.
const metadataValueLimit = 500

// OrderTypeTag identifies orders from this storefront in processor metadata.
const OrderTypeTag = "custom_ammunition_box"

// MetadataInput collects the fields attached to a payment intent as
// processor metadata. Customer fields must already be sanitized.
type MetadataInput struct {
	Items           []CartItem
	CustomerEmail   string
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	TotalMajor      float64
	TestMode        bool
	ClientIP        string
	IdempotencyKey  string
}

// BuildMetadata flattens the order into the processor's string-keyed
// metadata map. When the serialized item list would exceed the processor's
// per-value limit, an items_ref marker is stored instead and the full list
// stays recoverable through the intent itself.
func BuildMetadata(in MetadataInput) map[string]string {
	metadata := map[string]string{
		"order_type":       OrderTypeTag,
		"items_count":      strconv.Itoa(len(in.Items)),
		"customer_email":   in.CustomerEmail,
		"customer_name":    in.CustomerName,
		"customer_phone":   in.CustomerPhone,
		"customer_address": in.CustomerAddress,
		"total_amount":     strconv.FormatFloat(in.TotalMajor, 'f', -1, 64),
		"is_test_mode":     strconv.FormatBool(in.TestMode),
		"client_ip":        in.ClientIP,
		"idempotency_key":  in.IdempotencyKey,
	}

	serialized, err := json.Marshal(in.Items)
	if err == nil && len(serialized) <= metadataValueLimit {
		metadata["items"] = string(serialized)
	} else {
		metadata["items_ref"] = in.IdempotencyKey
	}

	return metadata
}
