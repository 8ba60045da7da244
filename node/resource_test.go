package node_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/raghaven447/pipewire/node"
	"github.com/raghaven447/pipewire/node/nodetest"
)

var _ = Describe("Resource binding", func() {
	// A bound resource gets an immediate full-mask snapshot, then only
	// the bits that actually changed on each subsequent state move.
	It("notifies bound resources on bind and on every state change", func() {
		var bound *nodetest.Resource
		elem := nodetest.NewElement(0, 0)
		n, err := node.New(node.Config{
			Name: "n-bind", Elem: elem, Scheduler: &nodetest.Scheduler{}, RTLoop: &nodetest.RTLoop{},
			WorkQueue: node.NewWorkQueue(), Registry: node.NewRegistry(),
			BindFunc: func(*node.Node) node.Resource {
				bound = &nodetest.Resource{}
				return bound
			},
		})
		Expect(err).NotTo(HaveOccurred())

		res := n.Bind()
		Expect(res).NotTo(BeNil())
		Expect(bound.Snapshot()).To(HaveLen(1))
		Expect(bound.Snapshot()[0].ChangeMask).To(Equal(node.BitAll))

		elem.Results = []node.CommandResult{{Code: 0}, {Code: 0}}
		Expect(n.RequestState(node.Running)).To(Succeed())

		notifies := bound.Snapshot()
		Expect(len(notifies)).To(BeNumerically(">=", 2))
		last := notifies[len(notifies)-1]
		Expect(last.State).To(Equal(node.Running))
		Expect(last.ChangeMask & node.BitState).To(Equal(node.BitState))
	})

	// Destroy unhooks every bound resource via step 3 of teardown.
	It("unhooks bound resources on destroy", func() {
		var bound *nodetest.Resource
		elem := nodetest.NewElement(0, 0)
		n, err := node.New(node.Config{
			Name: "n-unhook", Elem: elem, Scheduler: &nodetest.Scheduler{}, RTLoop: &nodetest.RTLoop{},
			WorkQueue: node.NewWorkQueue(), Registry: node.NewRegistry(),
			BindFunc: func(*node.Node) node.Resource {
				bound = &nodetest.Resource{}
				return bound
			},
		})
		Expect(err).NotTo(HaveOccurred())

		n.Bind()
		n.Destroy()

		Expect(bound.Unhooked).To(BeTrue())
	})
})
