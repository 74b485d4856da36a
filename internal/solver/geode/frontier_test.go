package geode

import "testing"

func TestFrontierPopsHighestPriority(t *testing.T) {
	f := newFrontier()
	for _, p := range []int{3, 9, 1, 7} {
		f.Push(&node{state: State{Time: p}}, p)
	}

	var got []int
	for n := f.Pop(); n != nil; n = f.Pop() {
		got = append(got, n.priority)
	}

	want := []int{9, 7, 3, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pop order = %v, want %v", got, want)
		}
	}
}

func TestFrontierTiesPopNewestFirst(t *testing.T) {
	f := newFrontier()
	for i := 1; i <= 4; i++ {
		f.Push(&node{state: State{Time: i}}, 0)
	}

	for want := 4; want >= 1; want-- {
		n := f.Pop()
		if n.state.Time != want {
			t.Fatalf("popped state from minute %d, want %d", n.state.Time, want)
		}
	}
	if f.Len() != 0 || f.Pop() != nil {
		t.Error("frontier should be empty")
	}
}
