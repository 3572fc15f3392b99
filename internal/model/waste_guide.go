package model

// WasteGuideItem is a public disposal-instructions entry maintained by
// admins and searched by citizens.
type WasteGuideItem struct {
    ID           uint64 // waste_guide.id
    Name         string // waste_guide.name (unique)
    Category     string // waste_guide.category
    Instructions string // waste_guide.instructions
}
