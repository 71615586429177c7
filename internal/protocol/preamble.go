package protocol

// Preamble is the python hook library prepended to every algorithm run. The
// hooks print protocol lines that Extract turns back into commands.
const Preamble = `import sys
from collections import *
from heapq import *

def colour(u, color=None):
    if color is None:
        print(f"__GRAPH__ colour {u}")
    else:
        print(f"__GRAPH__ colour {u} {color}")

def traverse(u, v, color=None):
    if color is None:
        print(f"__GRAPH__ traverse {u} {v}")
    else:
        print(f"__GRAPH__ traverse {u} {v} {color}")

`
