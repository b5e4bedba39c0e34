// Package javascript compiles and runs scripts with the goja engine.
//
// A script is a JavaScript source file. Its types are the constructors it
// declares at top level (class, function, var, let and const declarations)
// and the constructors it places on module.exports. The methods of a type are
// the function-valued own properties of its prototype.
//
// The parameters of a type are either declared by the script,
//
//	class Median {
//		static parameters = [
//			{ name: "FilterSize", direction: "in", type: "int" },
//			{ name: "Elapsed", direction: "out" },
//		];
//	}
//
// or derived once from the shape of a fresh instance: accessors with a setter
// and writable data properties are inputs, getter-only accessors and read-only
// data properties are outputs. Names starting with an underscore are private.
//
// Dependency modules are reached with require(name). Modules declared next to
// the script are loaded at compile time; any other name is resolved on first
// use, first in the script directory and then through the ambient resolver.
package javascript
