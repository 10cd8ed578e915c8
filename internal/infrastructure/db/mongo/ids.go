package mongo

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// objectIDs converts hex ids, dropping any that are not valid ObjectIDs. An
// invalid id can never match a document, so dropping it keeps queries exact.
func objectIDs(hexes []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		if oid, err := primitive.ObjectIDFromHex(h); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

func hexIDs(oids []primitive.ObjectID) []string {
	out := make([]string, 0, len(oids))
	for _, oid := range oids {
		out = append(out, oid.Hex())
	}
	return out
}
