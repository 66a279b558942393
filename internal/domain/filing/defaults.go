package filing

// EmptyDoorSentinel selects door numbers that are NULL or empty in a bulk correction
const EmptyDoorSentinel = "__EMPTY__"

// DefaultRegionNames are seeded when the store has no regions
var DefaultRegionNames = []string{
	"NCR - National Capital Region",
	"CAR - Cordillera Administrative Region",
	"Region I - Ilocos Region",
	"Region II - Cagayan Valley",
	"Region III - Central Luzon",
	"Region IV-A - CALABARZON",
	"Region IV-B - MIMAROPA",
	"Region V - Bicol Region",
	"Region VI - Western Visayas",
	"Region VII - Central Visayas",
	"Region VIII - Eastern Visayas",
	"Region IX - Zamboanga Peninsula",
	"Region X - Northern Mindanao",
	"Region XI - Davao Region",
	"Region XII - SOCCSKSARGEN",
	"Region XIII - Caraga",
	"BARMM - Bangsamoro Autonomous Region",
}

// DefaultDocumentTypeNames are seeded when the store has no document types
var DefaultDocumentTypeNames = []string{
	"DEED OF ABSOLUTE SALE",
	"AFFIDAVIT OF LOSS",
}

// DoorSelector picks the door numbers affected by a bulk correction
type DoorSelector struct {
	// Empty matches NULL and "" door numbers; Value is ignored when set
	Empty bool
	Value string
}

// ParseDoorSelector interprets the submitted old door value
func ParseDoorSelector(oldDoor string) DoorSelector {
	if oldDoor == EmptyDoorSentinel {
		return DoorSelector{Empty: true}
	}
	return DoorSelector{Value: oldDoor}
}

// String renders the selector the way it appears in audit details
func (s DoorSelector) String() string {
	if s.Empty {
		return "(empty)"
	}
	return s.Value
}

// SeedResult counts the rows a defaults seed actually inserted
type SeedResult struct {
	Regions       int64
	DocumentTypes int64
}
