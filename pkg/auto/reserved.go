package auto

const (
	// AccessSlot is the field holding an object's resolver.
	AccessSlot = "$$access"

	// ConstructorSlot is the field holding a class's constructor hook.
	ConstructorSlot = "$$constructor"
)

// reservedNames never reach a resolver. The order is part of the public
// surface exposed as internalProperties.
var reservedNames = []string{
	"constructor",
	"hasOwnProperty",
	"isPrototypeOf",
	"propertyIsEnumerable",
	"toLocaleString",
	"toString",
	"valueOf",
	"__defineGetter__",
	"__defineSetter__",
	"__lookupGetter__",
	"__lookupSetter__",
	"__proto__",
	"inspect",
	ConstructorSlot,
}

var reservedSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(reservedNames))
	for _, n := range reservedNames {
		m[n] = struct{}{}
	}
	return m
}()

// ReservedNames returns a copy of the names exempt from interception.
func ReservedNames() []string {
	return append([]string(nil), reservedNames...)
}

// IsReserved reports whether name is exempt from interception. The match is
// exact and case-sensitive.
func IsReserved(name string) bool {
	_, ok := reservedSet[name]
	return ok
}
