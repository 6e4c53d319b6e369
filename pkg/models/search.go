package models

// RankedItem is an embedded wardrobe item scored against the active query
// vector. Similarity is cosine similarity and is not clamped; a NaN score
// means "no signal" and sorts last.
type RankedItem struct {
	EmbeddedItem
	Similarity float64 `json:"similarity"`
}

// CategoryBuckets groups ranked items per garment category, each bucket capped
// at a fixed capacity. Bucket order here is the order the buckets are
// flattened in: the outfit generation prompt relies on full-body items
// appearing first.
type CategoryBuckets struct {
	FullBody    []RankedItem `json:"full_body"`
	Tops        []RankedItem `json:"tops"`
	Bottoms     []RankedItem `json:"bottoms"`
	Outerwear   []RankedItem `json:"outerwear"`
	Footwear    []RankedItem `json:"footwear"`
	Accessories []RankedItem `json:"accessories"`
}

// SearchResult is the outcome of the retrieval pipeline: the flattened
// candidate set handed to outfit generation, plus the per-category view.
type SearchResult struct {
	SelectedItems      []RankedItem    `json:"selected_items"`
	BalancedCategories CategoryBuckets `json:"balanced_categories"`
}
