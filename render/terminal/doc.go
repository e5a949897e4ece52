// Package terminal renders a running colony with tcell: the map with robots
// drawn over their tiles, and a sidebar of base resources, robot counts and
// ledger size. Space steps one tick, p pauses autoplay, + and - change its
// speed, q or Esc quits.
package terminal
