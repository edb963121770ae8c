// Package bot provides computer opponents for a sabacc table and the names
// they play under.
package bot
