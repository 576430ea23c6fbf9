package goprops

// Package goprops provides:
//
// - Declared record types (StructType) built from prop declarations (Decl)
// - Accessors that enforce mutability and presence on every read and write
// - A deterministic Serialize / FromHash pair over plain data (maps, slices, scalars)
// - A stable error model: typed errors convertible to Issues (JSON Pointer, code, message)
//
// Design policy:
// - Type descriptors and their serializer live under types/.
// - Keep the declaration surfaces separate: fluent DSL under dsl/, declaration files under schema/.
// - Byte-level JSON lives under codec/ and source/; the root package only deals in plain data.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  point := goprops.MustDeclare("Point", goprops.Config{},
//      goprops.Const("x", types.Integer()),
//      goprops.Prop("y", types.Integer(), goprops.Options{Optional: goprops.OptionalWithDefault, Default: int64(0), HasDefault: true}),
//  )
//  p, err := point.New(map[string]any{"x": int64(1)})
//  plain, err := p.Serialize()
//  q, err := point.FromHash(plain)
//
