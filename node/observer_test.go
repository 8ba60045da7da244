package node_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/raghaven447/pipewire/node"
)

var _ = Describe("Observer fanout", func() {
	// An observer that unregisters itself mid-emission must not skip or
	// duplicate any sibling observer's delivery, and must not fire again
	// on a later emission (§9 Design Notes: observer removal during
	// emission).
	It("lets an observer unregister itself during its own callback", func() {
		n, elem, _, _ := newTestHarness(0, 0)
		elem.Results = []node.CommandResult{{Code: 0}, {Code: 0}}

		var calls []string
		var selfHandle node.ObserverHandle
		selfHandle = n.Observers().StateChanged.Register(func(_ *node.Node, _, _ node.State, _ any) {
			calls = append(calls, "self")
			n.Observers().StateChanged.Unregister(selfHandle)
		}, nil)
		n.Observers().StateChanged.Register(func(_ *node.Node, _, _ node.State, _ any) {
			calls = append(calls, "sibling")
		}, nil)

		Expect(n.RequestState(node.Idle)).To(Succeed())
		Expect(calls).To(Equal([]string{"self", "sibling"}))

		calls = nil
		elem.Results = []node.CommandResult{{Code: 0}}
		Expect(n.RequestState(node.Running)).To(Succeed())
		Expect(calls).To(Equal([]string{"sibling"}))
	})
})
