/*
Package cdcsim provides a small hardware-description substrate and a
cycle-accurate simulator for clock-domain-crossing primitives.

Parts are described by a PartSpec (pin interface plus a mount function),
wired together with W maps into chips, and run inside a Circuit that
advances wire states in discrete steps grouped into clock cycles. Wire
states are three-valued (Low, High, Undef) so that power-up and
unresolved metastable values can be modeled instead of being silently
read as zero.

The synclib package builds the actual clock-domain-crossing parts
(synchronizer shift registers, clock-crossing registers) on top of this
substrate.
*/
package cdcsim
