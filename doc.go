// Package dtobind binds JSON objects to immutable records that are exposed
// through an interface and built by a constructor.
//
// - A Schema declares the record's members (interface accessors) and its constructors
// - Configure resolves the constructor whose parameter types match the writable members
// - A Binder registers read names (with fallbacks), write names and per-member codecs
// - The built Converter reads objects in any member order and writes them back
// - Optional[T] tells an absent member from one present with null
//
// Design policy:
// - Keep only public APIs in the root package; token plumbing lives under internal/.
// - Leaf codecs live under codec/, naming policies under naming/, alternate sources under source/.
// - The schema declaration can be generated from Go source with cmd/dtobind.
//
// Typical usage:
//
//	s := dtobind.NewSchema[User, *user]()
//	id := dtobind.Field(s, "ID", User.ID)
//	dtobind.Field(s, "Name", User.Name)
//	dtobind.Computed(s, "Mention", User.Mention)
//	s.Constructor(newUser, "id", "name")
//
//	conv := dtobind.Configure(s, nil).
//		WithReadName(id, "id", "user_id").
//		MustBuild()
//
//	u, err := dtobind.Unmarshal(conv, data)
//	out, err := dtobind.Marshal(conv, u)
package dtobind
