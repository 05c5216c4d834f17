/*

Process of assembly

Assembly Text ->
	split into lines ->
Source Line ->
	parse ->
Syntax Node (ast) ->
	analyze ->
Instruction (asm) ->
	encode ->
Fixed-size little-endian word ->
	concatenate in source order ->
Binary Object (obj) ->
	Sink

Each line gives at most one instruction, the first error stops the whole run
and nothing is written.

*/
package assembler
