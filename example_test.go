package kasync_test

import (
	"fmt"

	"github.com/dvratil/kasync"
)

func ExampleJob_basic() {
	loop := &kasync.Loop{}

	job := kasync.Then(
		kasync.Start(loop, func(kasync.Unit) int { return 41 }),
		func(n int) int { return n + 1 },
	)

	future := job.Exec()
	loop.Run()

	fmt.Println(future.Value())
	// Output:
	// 42
}

func ExampleJob_onError() {
	loop := &kasync.Loop{}

	job := kasync.ErrorJob[int](loop, kasync.Error{Code: 1, Message: "disk full"}).
		OnError(func(err kasync.Error) {
			fmt.Println("recovered from:", err.Message)
		})

	future := job.Exec()
	loop.Run()

	fmt.Println(future.HasError(), future.Value())
	// Output:
	// recovered from: disk full
	// false 0
}

func ExampleEach() {
	loop := &kasync.Loop{}

	job := kasync.Each(
		kasync.Value(loop, []int{1, 2, 3}),
		func(n int) kasync.Job[int] { return kasync.Value(loop, n*n) },
	)

	future := job.Exec()
	loop.Run()

	fmt.Println(future.Value())
	// Output:
	// [1 4 9]
}

func ExampleDoWhile() {
	loop := &kasync.Loop{}

	n := 0
	job := kasync.DoWhile(loop, func() kasync.Job[kasync.ControlFlow] {
		return kasync.Then(kasync.Null(loop), func(kasync.Unit) kasync.ControlFlow {
			n++
			fmt.Println("tick", n)
			if n >= 3 {
				return kasync.Break
			}
			return kasync.Continue
		})
	})

	job.Exec()
	loop.Run()

	// Output:
	// tick 1
	// tick 2
	// tick 3
}
