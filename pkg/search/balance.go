package search

import (
	"strings"

	"github.com/getfitted/fitted/pkg/models"
)

// Per-category selection capacities.
const (
	FullBodyCap    = 5
	TopsCap        = 15
	BottomsCap     = 15
	OuterwearCap   = 8
	FootwearCap    = 8
	AccessoriesCap = 5
)

// Balance partitions a ranked sequence into capped per-category buckets so the
// candidate set keeps compositional variety instead of only the globally
// highest-scoring items. Membership is a case-insensitive substring match on
// the item's category, which tolerates label drift between stored categories
// and the bucket taxonomy; an item may land in zero or several buckets and no
// de-duplication is applied.
func Balance(rankedItems []models.RankedItem) models.CategoryBuckets {
	return models.CategoryBuckets{
		FullBody:    bucket(rankedItems, "full body", FullBodyCap),
		Tops:        bucket(rankedItems, "top", TopsCap),
		Bottoms:     bucket(rankedItems, "bottom", BottomsCap),
		Outerwear:   bucket(rankedItems, "outerwear", OuterwearCap),
		Footwear:    bucket(rankedItems, "footwear", FootwearCap),
		Accessories: bucket(rankedItems, "accessory", AccessoriesCap),
	}
}

// bucket selects the first capacity items whose category contains keyword,
// preserving the global similarity order.
func bucket(rankedItems []models.RankedItem, keyword string, capacity int) []models.RankedItem {
	selected := make([]models.RankedItem, 0, capacity)
	for _, item := range rankedItems {
		if len(selected) == capacity {
			break
		}
		if strings.Contains(strings.ToLower(item.Category), keyword) {
			selected = append(selected, item)
		}
	}
	return selected
}

// Flatten concatenates the buckets in a fixed order: full-body, tops, bottoms,
// outerwear, footwear, accessories. The order frames the downstream outfit
// generation prompt and is independent of similarity.
func Flatten(buckets models.CategoryBuckets) []models.RankedItem {
	flattened := make([]models.RankedItem, 0,
		len(buckets.FullBody)+len(buckets.Tops)+len(buckets.Bottoms)+
			len(buckets.Outerwear)+len(buckets.Footwear)+len(buckets.Accessories))

	flattened = append(flattened, buckets.FullBody...)
	flattened = append(flattened, buckets.Tops...)
	flattened = append(flattened, buckets.Bottoms...)
	flattened = append(flattened, buckets.Outerwear...)
	flattened = append(flattened, buckets.Footwear...)
	flattened = append(flattened, buckets.Accessories...)

	return flattened
}
