// Package dataset maps the category-keyed radiograph dataset layout onto the
// filesystem and loads images as explicit results rather than thrown errors.
package dataset

// Category is a dataset partition label used for aggregation.
type Category string

// The four dataset categories.
const (
	CategoryCOVID          Category = "COVID"
	CategoryNormal         Category = "Normal"
	CategoryLungOpacity    Category = "Lung_Opacity"
	CategoryViralPneumonia Category = "Viral_Pneumonia"
)

// categoryFolders is the explicit mapping from category to on-disk folder
// name. The dataset distribution is inconsistent about casing and separators
// (lowercase folders, one with a space), so the mapping is enumerated here
// and validated at startup instead of being derived from the label.
var categoryFolders = map[Category]string{
	CategoryCOVID:          "COVID",
	CategoryNormal:         "normal",
	CategoryLungOpacity:    "lung_opacity",
	CategoryViralPneumonia: "Viral Pneumonia",
}

// Categories returns all known categories in stable display order.
func Categories() []Category {
	return []Category{
		CategoryCOVID,
		CategoryNormal,
		CategoryLungOpacity,
		CategoryViralPneumonia,
	}
}

// Folder returns the dataset folder name for the category and whether the
// category is known.
func (c Category) Folder() (string, bool) {
	folder, ok := categoryFolders[c]
	return folder, ok
}

// Valid reports whether the category is one of the known dataset partitions.
func (c Category) Valid() bool {
	_, ok := categoryFolders[c]
	return ok
}
