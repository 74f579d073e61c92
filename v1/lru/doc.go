// Package lru implements a generic fixed-capacity cache with a
// least-recently-used eviction policy.
//
// A map indexes keys to handles into an arena-backed doubly linked list whose
// head and tail are sentinel slots, so moving an entry to the front and
// evicting from the back are O(1) for any list size. The cache is not safe
// for concurrent use.
package lru
