package tree

// TreeError represents an error related with decision trees
type TreeError string

/*
ErrInvalidArgument is the error wrapped by operations that receive a nil
required value (question, status, answerer, tree) or an out of range scalar
(depth, node index).
*/
const ErrInvalidArgument = TreeError("invalid argument")

/*
ErrInvalidState is the error wrapped by operations that require a setup
step that has not been performed yet, such as rebuilding the index of a
tree before looking nodes up by position, or setting the question of a node
before routing through it.
*/
const ErrInvalidState = TreeError("invalid state")

/*
ErrCorruptTree is the error wrapped when a traversal reaches neither an
outcome node nor a valid next node. It signals a previous violation of the
tree shape and should not be retried.
*/
const ErrCorruptTree = TreeError("structural corruption")

func (te TreeError) Error() string {
	return string(te)
}
