package cache

// KeyMedicine is the cache key for one catalog entry.
func KeyMedicine(id string) string {
	return "catalog:medicine:" + id
}

// KeyMedicineList is the cache key for the full catalog listing.
func KeyMedicineList() string {
	return "catalog:medicines"
}

// KeyInvoice is the archive key for a generated invoice.
func KeyInvoice(id string) string {
	return "invoice:" + id
}
