package actor

// InputBase can be embedded into input structs to satisfy Input.
type InputBase struct{}

func (InputBase) isActorInput() {}

// EffectBase can be embedded into effect structs to satisfy Effect.
type EffectBase struct{}

func (EffectBase) isActorEffect() {}

// Replay folds a sequence of inputs through the reducer and returns the final
// state together with every effect produced, in order.
func Replay[S any](state S, inputs []Input, reducer ReducerFunc[S]) (S, []Effect) {
	var all []Effect
	for _, input := range inputs {
		var effects []Effect
		state, effects = reducer(state, input)
		all = append(all, effects...)
	}
	return state, all
}
